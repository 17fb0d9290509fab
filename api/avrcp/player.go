package avrcp

// MediaStatus indicates the playback status of a remote media player.
type MediaStatus string

// The different values for the media player status.
const (
	MediaStopped     MediaStatus = "stopped"
	MediaPlaying     MediaStatus = "playing"
	MediaPaused      MediaStatus = "paused"
	MediaForwardSeek MediaStatus = "forward-seek"
	MediaReverseSeek MediaStatus = "reverse-seek"
	MediaError       MediaStatus = "error"
)

// ParseMediaStatus maps a wire status string to a MediaStatus.
func ParseMediaStatus(s string) (MediaStatus, bool) {
	switch status := MediaStatus(s); status {
	case MediaStopped, MediaPlaying, MediaPaused,
		MediaForwardSeek, MediaReverseSeek, MediaError:
		return status, true
	}

	return "", false
}

// PlayerType indicates the kind of remote media player.
type PlayerType string

// The different values for the player type.
const (
	PlayerAudio          PlayerType = "Audio"
	PlayerVideo          PlayerType = "Video"
	PlayerAudioBroadcast PlayerType = "Audio Broadcasting"
	PlayerVideoBroadcast PlayerType = "Video Broadcasting"
)

// ParsePlayerType maps a wire player type string to a PlayerType.
// Unrecognized strings map to PlayerAudio, which matches what most
// peers actually mean when they report nonstandard types.
func ParsePlayerType(s string) PlayerType {
	switch t := PlayerType(s); t {
	case PlayerAudio, PlayerVideo, PlayerAudioBroadcast, PlayerVideoBroadcast:
		return t
	}

	return PlayerAudio
}

// TrackData describes the track properties of the currently playing media.
// Any field may be absent when the peer does not populate it.
type TrackData struct {
	// Title holds the title name of the track.
	Title string `json:"title,omitempty" codec:"Title,omitempty" doc:"The title name of the track."`

	// Album holds the album name of the track.
	Album string `json:"album,omitempty" codec:"Album,omitempty" doc:"The album name of the track."`

	// Artist holds the artist name of the track.
	Artist string `json:"artist,omitempty" codec:"Artist,omitempty" doc:"The artist name of the track."`

	// Genre holds the genre of the track.
	Genre string `json:"genre,omitempty" codec:"Genre,omitempty" doc:"The genre of the track."`

	// Duration holds the duration of the track in milliseconds.
	Duration uint32 `json:"duration,omitempty" codec:"Duration,omitempty" doc:"The duration of the track."`

	// TrackNumber holds the playlist position of the track.
	TrackNumber uint32 `json:"track_number,omitempty" codec:"TrackNumber,omitempty" doc:"The playlist position of the track."`

	// TotalTracks holds the total number of tracks.
	TotalTracks uint32 `json:"total_tracks,omitempty" codec:"NumberOfTracks,omitempty" doc:"The total number of tracks."`
}

// PlayStatus holds the playback state of a player.
type PlayStatus struct {
	// Status indicates the status of the player.
	Status MediaStatus `json:"status,omitempty" codec:"Status,omitempty" enum:"stopped,playing,paused,forward-seek,reverse-seek,error" doc:"Indicates the status of the player."`

	// Position indicates the current position of the playing track in milliseconds.
	Position uint32 `json:"position,omitempty" codec:"Position,omitempty" doc:"Indicates the current position of the playing track."`

	// Duration holds the duration of the playing track in milliseconds.
	Duration uint32 `json:"duration,omitempty" codec:"Duration,omitempty" doc:"The duration of the playing track."`
}

// PlayerData holds the information of one remote media player endpoint.
type PlayerData struct {
	// Path holds the canonical endpoint path of the player.
	Path string `json:"path,omitempty" doc:"The endpoint path of the player."`

	// Name holds the display name of the player.
	Name string `json:"name,omitempty" codec:"Name,omitempty" doc:"The display name of the player."`

	// Type indicates the kind of the player.
	Type PlayerType `json:"type,omitempty" codec:"Type,omitempty" doc:"The kind of the player."`

	// Browsable specifies if the player exposes a browsable media tree.
	Browsable bool `json:"browsable,omitempty" codec:"Browsable,omitempty" doc:"Specifies if the player exposes a browsable media tree."`

	// Searchable specifies if the player's media tree can be searched.
	Searchable bool `json:"searchable,omitempty" codec:"Searchable,omitempty" doc:"Specifies if the player's media tree can be searched."`

	// Playlist holds the canonical path of the player's playlist, if any.
	Playlist string `json:"playlist,omitempty" codec:"Playlist,omitempty" doc:"The canonical path of the player's playlist."`

	// Addressed specifies if this player is the active playback target.
	Addressed bool `json:"addressed,omitempty" doc:"Specifies if this player is the active playback target."`

	// Status holds the cached playback state.
	Status PlayStatus `json:"play_status,omitempty" doc:"The cached playback state."`

	// Track holds the cached metadata of the current track.
	Track TrackData `json:"track,omitempty" doc:"The cached metadata of the current track."`
}
