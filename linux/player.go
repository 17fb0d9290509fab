//go:build linux

package linux

import (
	"sync"

	"github.com/darkhz/avremote/api/avrcp"
	"github.com/darkhz/avremote/api/helpers/statediff"
	dbh "github.com/darkhz/avremote/linux/internal/dbushelper"
	"github.com/godbus/dbus/v5"
)

// player holds the mirrored state of one remote media player endpoint.
// The optional browsing navigator is attached while the player exposes
// the folder capability; its presence is the sole capability signal.
type player struct {
	path  dbus.ObjectPath
	cache *statediff.Cache

	mu       sync.Mutex
	data     avrcp.PlayerData
	browsing *Navigator
}

// newPlayer returns a player primed with the provided property snapshot.
// Priming fills the caches without emitting notifications.
func newPlayer(path dbus.ObjectPath, props map[string]dbus.Variant) *player {
	p := &player{
		path:  path,
		cache: statediff.NewCache(),
	}
	p.data.Path = dbh.RelativePath(path, path)

	p.prime(props)

	return p
}

// prime seeds the player state and diff cache from a property snapshot.
func (p *player) prime(props map[string]dbus.Variant) {
	p.mu.Lock()
	defer p.mu.Unlock()

	seed := make(map[string]any, len(props))

	for key, variant := range props {
		value := variant.Value()

		switch key {
		case "Name":
			if name, ok := value.(string); ok {
				p.data.Name = name
				seed[key] = name
			}

		case "Type":
			if t, ok := value.(string); ok {
				p.data.Type = avrcp.ParsePlayerType(t)
				seed[key] = t
			}

		case "Browsable":
			if b, ok := value.(bool); ok {
				p.data.Browsable = b
				seed[key] = b
			}

		case "Searchable":
			if s, ok := value.(bool); ok {
				p.data.Searchable = s
				seed[key] = s
			}

		case "Playlist":
			if pl, ok := value.(dbus.ObjectPath); ok {
				p.data.Playlist = dbh.RelativePath(p.path, pl)
				seed[key] = p.data.Playlist
			}

		case "Status":
			if s, ok := value.(string); ok {
				if status, valid := avrcp.ParseMediaStatus(s); valid {
					p.data.Status.Status = status
				}
				seed[key] = s
			}

		case "Position":
			if pos, ok := value.(uint32); ok {
				p.data.Status.Position = pos
				seed[key] = pos
			}

		case "Track":
			if bundle, ok := value.(map[string]dbus.Variant); ok {
				if track, err := dbh.DecodeTrack(bundle); err == nil {
					p.data.Track = track
					p.data.Status.Duration = track.Duration
					p.cache.Seed(prefixed("Track", dbh.TrackFields(track)))
				}
			}

		case "Equalizer", "Repeat", "Shuffle", "Scan":
			if s, ok := value.(string); ok {
				seed[key] = s
			}
		}
	}

	p.cache.Seed(seed)
}

// snapshot returns a copy of the mirrored player state.
func (p *player) snapshot() avrcp.PlayerData {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.data
}

// infoEventData returns the aggregate player information payload.
func (p *player) infoEventData() avrcp.PlayerEventData {
	p.mu.Lock()
	defer p.mu.Unlock()

	return avrcp.PlayerEventData{
		Path:       p.data.Path,
		Name:       p.data.Name,
		Type:       p.data.Type,
		Browsable:  p.data.Browsable,
		Searchable: p.data.Searchable,
		Playlist:   p.data.Playlist,
		Addressed:  p.data.Addressed,
	}
}

// navigator returns the attached browsing navigator, if any.
func (p *player) navigator() *Navigator {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.browsing
}

// setNavigator attaches or detaches the browsing navigator.
func (p *player) setNavigator(nav *Navigator) {
	p.mu.Lock()
	old := p.browsing
	p.browsing = nav
	p.mu.Unlock()

	if old != nil {
		old.destroy()
	}
}

// setAddressed flips the addressed flag and reports whether it changed.
func (p *player) setAddressed(addressed bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.data.Addressed == addressed {
		return false
	}
	p.data.Addressed = addressed

	return true
}

// prefixed rewrites the keys of fields as "<key>.<field>".
func prefixed(key string, fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for field, value := range fields {
		out[key+"."+field] = value
	}

	return out
}
