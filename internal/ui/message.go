package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chordfinder/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSearchDone MsgKind = iota
	MsgSongFetched
	MsgRated
	MsgBrowserOpened
)

type searchResult struct {
	query   models.Query
	results []models.SongSummary
	err     error
}

type songResult struct {
	song *models.Song
	err  error
}

type ratingResult struct {
	songID  int
	stars   int
	summary *models.RatingSummary
	err     error
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(q models.Query, results []models.SongSummary, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchResult{q, results, err}}
}

// songFetchedMsg is the constructor for [MsgSongFetched]
func songFetchedMsg(song *models.Song, err error) Msg {
	return Msg{kind: MsgSongFetched, data: songResult{song, err}}
}

// ratedMsg is the constructor for [MsgRated]
func ratedMsg(songID, stars int, summary *models.RatingSummary, err error) Msg {
	return Msg{kind: MsgRated, data: ratingResult{songID, stars, summary, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(url string, err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: struct {
		url string
		err error
	}{url, err}}
}
