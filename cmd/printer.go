package cmd

import (
	"fmt"
	"strconv"

	"github.com/darkhz/avremote/api/avrcp"
	"github.com/fatih/color"
)

// printWarn prints a warning to the screen.
func printWarn(message string) {
	message = "[-] " + message

	color.New(color.FgYellow, color.Bold).Println(message)
}

// printError prints an error to the screen.
func printError(err error) {
	message := "[!] " + err.Error()

	color.New(color.FgRed, color.Bold).Println(message)
}

// printEvent prints a monitor event to the screen.
func printEvent(tag, message string) {
	color.New(color.FgCyan, color.Bold).Print("[" + tag + "] ")
	fmt.Println(message)
}

// printPlayer prints a player entry to the screen.
func printPlayer(player avrcp.PlayerData) {
	entry := "- " + player.Path + " (" + player.Name + ", " + string(player.Type) + ")"
	if player.Addressed {
		entry += " [addressed]"
	}
	if player.Browsable {
		entry += " [browsable]"
	}

	fmt.Println(entry)
}

// formatStatus formats a playback status payload.
func formatStatus(data avrcp.StatusEventData) string {
	return data.Path + ": " + string(data.Status) +
		" at " + strconv.FormatUint(uint64(data.Position), 10) +
		"/" + strconv.FormatUint(uint64(data.Duration), 10) + "ms"
}

// formatTrack formats a track metadata payload.
func formatTrack(data avrcp.TrackEventData) string {
	track := data.Title
	if data.Artist != "" {
		track = data.Artist + " - " + track
	}
	if data.Album != "" {
		track += " (" + data.Album + ")"
	}

	return data.Path + ": " + track
}
