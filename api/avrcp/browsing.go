package avrcp

// ItemType indicates the kind of a node in the browsable media tree.
type ItemType string

// The different values for the item type.
const (
	ItemAudio  ItemType = "audio"
	ItemVideo  ItemType = "video"
	ItemFolder ItemType = "folder"
)

// ParseItemType maps a wire item type string to an ItemType.
// Unrecognized strings default to ItemAudio; some peers report
// vendor-specific types for plain audio entries.
func ParseItemType(s string) ItemType {
	switch t := ItemType(s); t {
	case ItemAudio, ItemVideo, ItemFolder:
		return t
	}

	return ItemAudio
}

// FolderItemData describes one entry of a folder listing.
// Entries are produced fresh per listing call and are not cached.
type FolderItemData struct {
	// Path holds the canonical relative path of the item, unique within
	// one listing response.
	Path string `json:"path,omitempty" doc:"The canonical relative path of the item."`

	// Name holds the display name of the item.
	Name string `json:"name,omitempty" codec:"Name,omitempty" doc:"The display name of the item."`

	// Type indicates the kind of the item.
	Type ItemType `json:"type,omitempty" codec:"Type,omitempty" enum:"audio,video,folder" doc:"The kind of the item."`

	// Playable specifies if the item can be played.
	Playable bool `json:"playable,omitempty" codec:"Playable,omitempty" doc:"Specifies if the item can be played."`

	// Track holds the metadata of the item, when the peer provides it.
	Track TrackData `json:"track,omitempty" doc:"The metadata of the item."`
}
