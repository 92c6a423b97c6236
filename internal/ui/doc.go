// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the chord finder web pages:
//  1. [SearchView] : Enter known chords plus optional artist, title and genre filters
//  2. [ResultsView] : Browse ranked songs with a known/new chord badge for each
//  3. [SongView] : Read the chords and lyrics with known chords highlighted, and rate the song
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving backend results via the Msg union type.
// State that outlives a view (the last search, the selection and submitted ratings) lives in a caller-owned [session.Session],
// so a song can be rated once per session.
//
// Keyboard navigation uses tab/shift+tab between fields, enter to select, esc to go back and 1-5 to rate,
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
