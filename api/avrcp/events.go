package avrcp

import (
	"github.com/darkhz/avremote/api/errorkinds"
	"github.com/darkhz/avremote/api/eventbus"
)

// EventID represents a unique event ID.
type EventID byte

// The different types of event IDs.
const (
	EventNone EventID = iota // The zero value for this type.
	EventError
	EventPlayer
	EventStatus
	EventTrack
	EventSetting
	EventFolder
	EventConnection
)

// EventAction describes an action that is associated with an event.
type EventAction string

// The different types of event actions.
const (
	EventActionNone    EventAction = "none"
	EventActionUpdated EventAction = "updated"
	EventActionAdded   EventAction = "added"
	EventActionRemoved EventAction = "removed"
)

// eventNames holds names of different events.
var eventNames = map[EventID]string{
	EventNone:       "",
	EventError:      "error_event",
	EventPlayer:     "player_event",
	EventStatus:     "play_status_event",
	EventTrack:      "track_event",
	EventSetting:    "setting_event",
	EventFolder:     "folder_event",
	EventConnection: "connection_event",
}

// String returns the name of the event ID.
func (e EventID) String() string {
	return eventNames[e]
}

// Value returns the event ID.
func (e EventID) Value() uint {
	return uint(e)
}

// String returns the name of the event action.
func (e EventAction) String() string {
	return string(e)
}

// PlayerEventData holds the aggregate player information of one endpoint.
// A change to any of the name, type, browsable, searchable or playlist
// fields produces a single event carrying all of them.
type PlayerEventData struct {
	// Path holds the canonical endpoint path of the player.
	Path string `json:"path,omitempty" doc:"The endpoint path of the player."`

	// Name holds the display name of the player.
	Name string `json:"name,omitempty" doc:"The display name of the player."`

	// Type indicates the kind of the player.
	Type PlayerType `json:"type,omitempty" doc:"The kind of the player."`

	// Browsable specifies if the player exposes a browsable media tree.
	Browsable bool `json:"browsable,omitempty" doc:"Specifies if the player exposes a browsable media tree."`

	// Searchable specifies if the player's media tree can be searched.
	Searchable bool `json:"searchable,omitempty" doc:"Specifies if the player's media tree can be searched."`

	// Playlist holds the canonical path of the player's playlist.
	Playlist string `json:"playlist,omitempty" doc:"The canonical path of the player's playlist."`

	// Addressed specifies if this player is the active playback target.
	Addressed bool `json:"addressed,omitempty" doc:"Specifies if this player is the active playback target."`
}

// StatusEventData holds the playback state of a player after one of its
// fields changed. One event is emitted per changed field.
type StatusEventData struct {
	// Path holds the canonical endpoint path of the player.
	Path string `json:"path,omitempty" doc:"The endpoint path of the player."`

	PlayStatus
}

// TrackEventData holds the metadata of the current track after any of its
// fields changed. One event is emitted per property batch.
type TrackEventData struct {
	// Path holds the canonical endpoint path of the player.
	Path string `json:"path,omitempty" doc:"The endpoint path of the player."`

	TrackData
}

// SettingEventData holds one changed application setting.
type SettingEventData struct {
	// Path holds the canonical endpoint path of the player.
	Path string `json:"path,omitempty" doc:"The endpoint path of the player."`

	// Kind names the changed setting.
	Kind SettingKind `json:"kind,omitempty" enum:"equalizer,repeat,shuffle,scan" doc:"Names the changed setting."`

	// Value holds the new value of the setting.
	Value string `json:"value,omitempty" doc:"The new value of the setting."`
}

// FolderEventData holds the name of the currently browsed folder after it
// changed.
type FolderEventData struct {
	// Path holds the canonical endpoint path of the player.
	Path string `json:"path,omitempty" doc:"The endpoint path of the player."`

	// Folder holds the name of the currently browsed folder.
	Folder string `json:"folder,omitempty" doc:"The name of the currently browsed folder."`
}

// ConnectionEventData holds the connection status of one device. It is
// published by both the media and the telephony paths.
type ConnectionEventData struct {
	// Address holds the Bluetooth address of the device.
	Address string `json:"address,omitempty" doc:"The Bluetooth address of the device."`

	// Connected specifies if the device is connected.
	Connected bool `json:"connected" doc:"Specifies if the device is connected."`
}

// Events defines a set of possible event data types.
type Events interface {
	NewDataEvents | UpdatedDataEvents
}

// NewDataEvents represents a set of events that contain complete
// information about an instance or event.
type NewDataEvents interface {
	errorkinds.GenericError | PlayerData
}

type emptyUpdatedDataEvent struct{}

// UpdatedDataEvents represents a set of events that carry updated or
// removed state.
type UpdatedDataEvents interface {
	emptyUpdatedDataEvent | PlayerEventData | StatusEventData | TrackEventData |
		SettingEventData | FolderEventData | ConnectionEventData
}

// Event represents a general event.
type Event[T Events] struct {
	// ID holds the event ID.
	ID EventID `json:"event_id,omitempty" doc:"The event ID."`

	// Action holds the corresponding action associated with this event.
	Action EventAction `json:"event_action,omitempty" enum:"updated,added,removed" doc:"The corresponding action associated with this event"`

	// Data holds the actual event data.
	Data T `json:"event_data,omitempty" doc:"The actual event data."`
}

// EventGroup holds a set of events that can be added ([NewDataEvents]) or
// updated ([UpdatedDataEvents]) for a particular event ID ([EventID]).
type EventGroup[N NewDataEvents, U UpdatedDataEvents] struct {
	// ID holds the event ID.
	ID EventID
}

// Subscriber describes a subscription to an event group.
type Subscriber[N NewDataEvents, U UpdatedDataEvents] struct {
	AddedEvents                  chan N
	UpdatedEvents, RemovedEvents chan U
	Done                         chan struct{}

	Unsubscribe eventbus.UnsubFunc
}

// PublishAdded publishes an event with the 'added' action.
func (e EventGroup[N, U]) PublishAdded(data N) {
	eventbus.Publish(e.ID, Event[N]{e.ID, EventActionAdded, data})
}

// PublishUpdated publishes an event with the 'updated' action.
func (e EventGroup[N, U]) PublishUpdated(data U) {
	eventbus.Publish(e.ID, Event[U]{e.ID, EventActionUpdated, data})
}

// PublishRemoved publishes an event with the 'removed' action.
func (e EventGroup[N, U]) PublishRemoved(data U) {
	eventbus.Publish(e.ID, Event[U]{e.ID, EventActionRemoved, data})
}

// Subscribe subscribes to an event group, and returns a subscriber which
// can be used to receive and unsubscribe from the event.
func (e EventGroup[N, U]) Subscribe() (*Subscriber[N, U], bool) {
	id := eventbus.Subscribe(e.ID)

	sub := Subscriber[N, U]{
		AddedEvents:   make(chan N, 1),
		RemovedEvents: make(chan U, 1),
		UpdatedEvents: make(chan U, 1),
		Done:          make(chan struct{}, 1),
		Unsubscribe:   id.Unsubscribe,
	}

	if !id.IsActive() {
		close(sub.AddedEvents)
		close(sub.RemovedEvents)
		close(sub.UpdatedEvents)

		return &sub, false
	}

	go func() {
		for data := range id.C {
			switch v := data.(type) {
			case Event[N]:
				if v.Action != EventActionAdded {
					continue
				}

				select {
				case sub.AddedEvents <- v.Data:
				default:
				}

			case Event[U]:
				var ch chan U

				switch v.Action {
				case EventActionUpdated:
					ch = sub.UpdatedEvents

				case EventActionRemoved:
					ch = sub.RemovedEvents

				default:
					continue
				}

				select {
				case ch <- v.Data:
				default:
				}
			}
		}

		select {
		case sub.Done <- struct{}{}:
		default:
		}

		close(sub.AddedEvents)
		close(sub.RemovedEvents)
		close(sub.UpdatedEvents)
	}()

	return &sub, true
}

// PlayerEvents returns an event interface to subscribe to player events.
func PlayerEvents() EventGroup[PlayerData, PlayerEventData] {
	return EventGroup[PlayerData, PlayerEventData]{ID: EventPlayer}
}

// StatusEvents returns an event interface to subscribe to playback status events.
func StatusEvents() EventGroup[PlayerData, StatusEventData] {
	return EventGroup[PlayerData, StatusEventData]{ID: EventStatus}
}

// TrackEvents returns an event interface to subscribe to track metadata events.
func TrackEvents() EventGroup[PlayerData, TrackEventData] {
	return EventGroup[PlayerData, TrackEventData]{ID: EventTrack}
}

// SettingEvents returns an event interface to subscribe to application setting events.
func SettingEvents() EventGroup[PlayerData, SettingEventData] {
	return EventGroup[PlayerData, SettingEventData]{ID: EventSetting}
}

// FolderEvents returns an event interface to subscribe to browsed folder events.
func FolderEvents() EventGroup[PlayerData, FolderEventData] {
	return EventGroup[PlayerData, FolderEventData]{ID: EventFolder}
}

// ConnectionEvents returns an event interface to subscribe to connection status events.
func ConnectionEvents() EventGroup[PlayerData, ConnectionEventData] {
	return EventGroup[PlayerData, ConnectionEventData]{ID: EventConnection}
}

// ErrorEvents returns an event interface to subscribe to error events.
func ErrorEvents() EventGroup[errorkinds.GenericError, emptyUpdatedDataEvent] {
	return EventGroup[errorkinds.GenericError, emptyUpdatedDataEvent]{ID: EventError}
}
