package avrcp

// SettingKind names one of the independent player application settings.
type SettingKind string

// The different application setting kinds.
const (
	SettingEqualizer SettingKind = "equalizer"
	SettingRepeat    SettingKind = "repeat"
	SettingShuffle   SettingKind = "shuffle"
	SettingScan      SettingKind = "scan"
)

// EqualizerMode indicates the equalizer setting of a player.
type EqualizerMode string

// The different values for the equalizer setting.
const (
	EqualizerOff     EqualizerMode = "off"
	EqualizerOn      EqualizerMode = "on"
	EqualizerUnknown EqualizerMode = "unknown"
)

// RepeatMode indicates the repeat setting of a player.
type RepeatMode string

// The different values for the repeat setting.
const (
	RepeatOff         RepeatMode = "off"
	RepeatSingleTrack RepeatMode = "singletrack"
	RepeatAllTracks   RepeatMode = "alltracks"
	RepeatGroup       RepeatMode = "group"
	RepeatUnknown     RepeatMode = "unknown"
)

// ShuffleMode indicates the shuffle or scan setting of a player.
// Both settings share one value set on the wire.
type ShuffleMode string

// The different values for the shuffle and scan settings.
const (
	ShuffleOff       ShuffleMode = "off"
	ShuffleAllTracks ShuffleMode = "alltracks"
	ShuffleGroup     ShuffleMode = "group"
	ShuffleUnknown   ShuffleMode = "unknown"
)

// ParseEqualizerMode maps a wire string to an EqualizerMode.
func ParseEqualizerMode(s string) EqualizerMode {
	switch mode := EqualizerMode(s); mode {
	case EqualizerOff, EqualizerOn:
		return mode
	}

	return EqualizerUnknown
}

// ParseRepeatMode maps a wire string to a RepeatMode.
func ParseRepeatMode(s string) RepeatMode {
	switch mode := RepeatMode(s); mode {
	case RepeatOff, RepeatSingleTrack, RepeatAllTracks, RepeatGroup:
		return mode
	}

	return RepeatUnknown
}

// ParseShuffleMode maps a wire string to a ShuffleMode.
func ParseShuffleMode(s string) ShuffleMode {
	switch mode := ShuffleMode(s); mode {
	case ShuffleOff, ShuffleAllTracks, ShuffleGroup:
		return mode
	}

	return ShuffleUnknown
}

// Settings holds a set of application setting writes. Only non-empty
// fields are applied; writes are issued key by key and the first failing
// write aborts the rest.
type Settings struct {
	// Equalizer holds the equalizer mode to apply.
	Equalizer EqualizerMode `json:"equalizer,omitempty" doc:"The equalizer mode to apply."`

	// Repeat holds the repeat mode to apply.
	Repeat RepeatMode `json:"repeat,omitempty" doc:"The repeat mode to apply."`

	// Shuffle holds the shuffle mode to apply.
	Shuffle ShuffleMode `json:"shuffle,omitempty" doc:"The shuffle mode to apply."`

	// Scan holds the scan mode to apply.
	Scan ShuffleMode `json:"scan,omitempty" doc:"The scan mode to apply."`
}
