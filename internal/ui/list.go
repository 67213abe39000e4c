package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/tasks"
	"github.com/dustin/go-humanize"
)

var (
	_ list.Item = searchItem{}
	_ list.Item = trackResultItem{}
)

// searchItem wraps [models.SearchResult] to implement [list.Item].
type searchItem struct {
	result models.SearchResult
}

func (i searchItem) FilterValue() string { return i.result.Name }
func (i searchItem) Title() string       { return i.result.Name }
func (i searchItem) Description() string {
	parts := []string{i.result.Type.String()}
	if len(i.result.Artists) > 0 {
		parts = append(parts, strings.Join(i.result.Artists, ", "))
	}
	if i.result.Year > 0 {
		parts = append(parts, strconv.Itoa(i.result.Year))
	}
	return strings.Join(parts, " • ")
}

// trackResultItem wraps [tasks.TrackResult] to implement [list.Item].
type trackResultItem struct {
	result tasks.TrackResult
}

func (i trackResultItem) FilterValue() string { return i.result.Label() }
func (i trackResultItem) Title() string       { return i.result.Label() }
func (i trackResultItem) Description() string {
	r := &i.result
	switch {
	case r.Delivered():
		return fmt.Sprintf("downloaded • %s • %s", humanize.Bytes(uint64(r.Size)), r.Path)
	case r.Skipped():
		return "skipped • " + r.Track.Error
	case r.Err != nil:
		return fmt.Sprintf("failed • %v", r.Err)
	default:
		return "pending"
	}
}
