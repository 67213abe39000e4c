// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI drives a download from selection to summary:
//  1. [SearchView] : Browse search hits and pick one to download
//  2. [ConfirmView] : Confirm the download target
//  3. [DownloadView] : Monitor real-time progress with a spinner and progress bar
//  4. [ResultView] : Browse per-track outcomes
//
// Models built with [NewModel] start directly in [DownloadView].
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the download engine, so a slow terminal never stalls the workers.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
