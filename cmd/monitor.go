package cmd

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/darkhz/avremote/api/avrcp"
	"github.com/darkhz/avremote/config"
	"github.com/darkhz/avremote/linux"
	"github.com/fatih/color"
)

// monitor follows the session's observer events and prints them until
// interrupted.
func monitor(_ *linux.Session, cfg *config.Config) error {
	if cfg.Values.NoColor {
		color.NoColor = true
	}

	players, _ := avrcp.PlayerEvents().Subscribe()
	status, _ := avrcp.StatusEvents().Subscribe()
	tracks, _ := avrcp.TrackEvents().Subscribe()
	settings, _ := avrcp.SettingEvents().Subscribe()
	folders, _ := avrcp.FolderEvents().Subscribe()
	connections, _ := avrcp.ConnectionEvents().Subscribe()
	errors, _ := avrcp.ErrorEvents().Subscribe()

	defer func() {
		players.Unsubscribe()
		status.Unsubscribe()
		tracks.Unsubscribe()
		settings.Unsubscribe()
		folders.Unsubscribe()
		connections.Unsubscribe()
		errors.Unsubscribe()
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case data := <-players.AddedEvents:
			printEvent("player", data.Path+" added ("+data.Name+")")

		case data := <-players.UpdatedEvents:
			printEvent("player", data.Path+" ("+data.Name+", addressed: "+strconv.FormatBool(data.Addressed)+")")

		case data := <-players.RemovedEvents:
			printEvent("player", data.Path+" removed")

		case data := <-status.UpdatedEvents:
			printEvent("status", formatStatus(data))

		case data := <-tracks.UpdatedEvents:
			printEvent("track", formatTrack(data))

		case data := <-settings.UpdatedEvents:
			printEvent("setting", data.Path+": "+string(data.Kind)+" = "+data.Value)

		case data := <-folders.UpdatedEvents:
			printEvent("folder", data.Path+": "+data.Folder)

		case data := <-connections.UpdatedEvents:
			printEvent("connection", data.Address+" connected: "+strconv.FormatBool(data.Connected))

		case data := <-errors.AddedEvents:
			printError(data)

		case <-interrupt:
			return nil
		}
	}
}
