//go:build linux

package linux

import (
	"errors"
	"path"
	"sync"

	"github.com/darkhz/avremote/api/avrcp"
	"github.com/darkhz/avremote/api/errorkinds"
	"github.com/darkhz/avremote/api/helpers/statediff"
	dbh "github.com/darkhz/avremote/linux/internal/dbushelper"
	"github.com/godbus/dbus/v5"
	"github.com/puzpuzpuz/xsync/v3"
)

// Registry mirrors the set of remote media player endpoints of one
// device connection, tracks the addressed player and fans property
// change batches out into observer notifications.
type Registry struct {
	bus        Bus
	devicePath dbus.ObjectPath
	address    string

	players  *xsync.MapOf[dbus.ObjectPath, *player]
	devCache *statediff.Cache

	// mu guards the addressed pointer and player attach/detach
	// transitions. It is held only for the duration of a diff or
	// dispatch step, never across a remote call.
	mu        sync.Mutex
	addressed dbus.ObjectPath
}

// NewRegistry returns a registry for the device at the provided path.
func NewRegistry(bus Bus, devicePath dbus.ObjectPath) *Registry {
	address, _ := dbh.DeviceAddress(devicePath)

	return &Registry{
		bus:        bus,
		devicePath: devicePath,
		address:    address,
		players:    xsync.NewMapOf[dbus.ObjectPath, *player](),
		devCache:   statediff.NewCache(),
	}
}

// Address returns the Bluetooth address of the device this registry mirrors.
func (r *Registry) Address() string {
	return r.address
}

// AddPlayer inserts a new player primed with the provided property
// snapshot. When the add event also reports the folder capability, a
// browsing navigator is attached immediately.
func (r *Registry) AddPlayer(playerPath dbus.ObjectPath, props map[string]dbus.Variant, browsable bool) {
	p := newPlayer(playerPath, props)
	if browsable {
		p.setNavigator(newNavigator(r.bus, playerPath))
	}

	r.players.Store(playerPath, p)

	avrcp.PlayerEvents().PublishAdded(p.snapshot())
}

// RemovePlayer detaches and destroys the player's browsing navigator, if
// any, then removes the player. If the removed player was addressed, the
// addressed pointer becomes empty; reassignment is driven externally.
func (r *Registry) RemovePlayer(playerPath dbus.ObjectPath) {
	p, ok := r.players.LoadAndDelete(playerPath)
	if !ok {
		return
	}

	p.setNavigator(nil)

	r.mu.Lock()
	if r.addressed == playerPath {
		r.addressed = ""
	}
	r.mu.Unlock()

	avrcp.PlayerEvents().PublishRemoved(avrcp.PlayerEventData{
		Path: dbh.RelativePath(playerPath, playerPath),
	})
}

// SetAddressed marks the player at the provided path as the active
// playback target. At most one player is addressed at a time; an empty
// path clears the pointer. The transition is driven by the external
// addressed-player-changed event.
func (r *Registry) SetAddressed(playerPath dbus.ObjectPath) {
	r.mu.Lock()
	previous := r.addressed
	r.addressed = playerPath
	r.mu.Unlock()

	if previous == playerPath {
		return
	}

	if p, ok := r.players.Load(previous); ok && p.setAddressed(false) {
		avrcp.PlayerEvents().PublishUpdated(p.infoEventData())
	}
	if p, ok := r.players.Load(playerPath); ok && p.setAddressed(true) {
		avrcp.PlayerEvents().PublishUpdated(p.infoEventData())
	}
}

// primeAddressed records the addressed player pointer during cache
// priming, without notifying.
func (r *Registry) primeAddressed(playerPath dbus.ObjectPath) {
	r.mu.Lock()
	r.addressed = playerPath
	r.mu.Unlock()

	if p, ok := r.players.Load(playerPath); ok {
		p.setAddressed(true)
	}
}

// AttachBrowsing attaches a browsing navigator to the player at the
// provided path, when the folder capability appears.
func (r *Registry) AttachBrowsing(playerPath dbus.ObjectPath) {
	p, ok := r.players.Load(playerPath)
	if !ok || p.navigator() != nil {
		return
	}

	p.setNavigator(newNavigator(r.bus, playerPath))
}

// DetachBrowsing destroys the player's browsing navigator, when the
// folder capability disappears.
func (r *Registry) DetachBrowsing(playerPath dbus.ObjectPath) {
	if p, ok := r.players.Load(playerPath); ok {
		p.setNavigator(nil)
	}
}

// Player returns a snapshot of the player at the provided canonical path.
func (r *Registry) Player(relPath string) (avrcp.PlayerData, error) {
	p, err := r.resolvePlayer(relPath)
	if err != nil {
		return avrcp.PlayerData{}, err
	}

	return p.snapshot(), nil
}

// Players returns snapshots of all mirrored players.
func (r *Registry) Players() []avrcp.PlayerData {
	players := make([]avrcp.PlayerData, 0, r.players.Size())

	r.players.Range(func(_ dbus.ObjectPath, p *player) bool {
		players = append(players, p.snapshot())

		return true
	})

	return players
}

// UpdateProperties routes a property change batch through the diff
// caches. Fields describing the player itself produce a single aggregate
// event per batch; playback status fields notify per field; track
// metadata notifies once per batch; each application setting notifies
// independently.
func (r *Registry) UpdateProperties(playerPath dbus.ObjectPath, variants map[string]dbus.Variant) {
	p, ok := r.players.Load(playerPath)
	if !ok {
		return
	}

	var infoChanged bool

	for key, variant := range variants {
		value := variant.Value()

		switch key {
		case "Name":
			name, ok := value.(string)
			if !ok {
				continue
			}
			if p.cache.Apply(key, name) {
				p.mu.Lock()
				p.data.Name = name
				p.mu.Unlock()
				infoChanged = true
			}

		case "Type":
			t, ok := value.(string)
			if !ok {
				continue
			}
			if p.cache.Apply(key, t) {
				p.mu.Lock()
				p.data.Type = avrcp.ParsePlayerType(t)
				p.mu.Unlock()
				infoChanged = true
			}

		case "Browsable":
			b, ok := value.(bool)
			if !ok {
				continue
			}
			if p.cache.Apply(key, b) {
				p.mu.Lock()
				p.data.Browsable = b
				p.mu.Unlock()
				infoChanged = true
			}

		case "Searchable":
			s, ok := value.(bool)
			if !ok {
				continue
			}
			if p.cache.Apply(key, s) {
				p.mu.Lock()
				p.data.Searchable = s
				p.mu.Unlock()
				infoChanged = true
			}

		case "Playlist":
			pl, ok := value.(dbus.ObjectPath)
			if !ok {
				continue
			}
			relative := dbh.RelativePath(playerPath, pl)
			if p.cache.Apply(key, relative) {
				p.mu.Lock()
				p.data.Playlist = relative
				p.mu.Unlock()
				infoChanged = true
			}

		case "Status":
			s, ok := value.(string)
			if !ok {
				continue
			}
			if p.cache.Apply(key, s) {
				status, valid := avrcp.ParseMediaStatus(s)
				if !valid {
					continue
				}
				p.mu.Lock()
				p.data.Status.Status = status
				p.mu.Unlock()

				r.publishStatus(p)
			}

		case "Position":
			pos, ok := value.(uint32)
			if !ok {
				continue
			}
			if p.cache.Apply(key, pos) {
				p.mu.Lock()
				p.data.Status.Position = pos
				p.mu.Unlock()

				r.publishStatus(p)
			}

		case "Track":
			bundle, ok := value.(map[string]dbus.Variant)
			if !ok {
				continue
			}
			track, err := dbh.DecodeTrack(bundle)
			if err != nil {
				dbh.PublishError(err, "Cannot parse track data",
					"error_at", "registry-track-decode",
					"player", string(playerPath),
				)

				continue
			}
			if p.cache.ApplyFields(key, dbh.TrackFields(track)) {
				p.mu.Lock()
				p.data.Track = track
				p.data.Status.Duration = track.Duration
				data := p.data
				p.mu.Unlock()

				avrcp.TrackEvents().PublishUpdated(avrcp.TrackEventData{
					Path:      data.Path,
					TrackData: track,
				})
			}

		case "Equalizer", "Repeat", "Shuffle", "Scan":
			s, ok := value.(string)
			if !ok {
				continue
			}
			if p.cache.Apply(key, s) {
				r.publishSetting(p, key, s)
			}
		}
	}

	if infoChanged {
		avrcp.PlayerEvents().PublishUpdated(p.infoEventData())
	}
}

// UpdateFolderProperties routes a folder endpoint's own property change
// batch to the attached navigator.
func (r *Registry) UpdateFolderProperties(playerPath dbus.ObjectPath, variants map[string]dbus.Variant) {
	p, ok := r.players.Load(playerPath)
	if !ok {
		return
	}

	if nav := p.navigator(); nav != nil {
		nav.updateProperties(variants)
	}
}

// UpdateControlProperties consumes the device's media control batches:
// the addressed player pointer and the control connection status.
func (r *Registry) UpdateControlProperties(variants map[string]dbus.Variant) {
	for key, variant := range variants {
		value := variant.Value()

		switch key {
		case "Player":
			playerPath, ok := value.(dbus.ObjectPath)
			if !ok {
				continue
			}
			r.SetAddressed(playerPath)

		case "Connected":
			connected, ok := value.(bool)
			if !ok {
				continue
			}
			if r.devCache.Apply(key, connected) {
				avrcp.ConnectionEvents().PublishUpdated(avrcp.ConnectionEventData{
					Address:   r.address,
					Connected: connected,
				})
			}
		}
	}
}

// SendPassThrough looks the key code up in the passthrough dispatch
// table and issues the mapped remote call against the addressed player,
// or the sole player if none is explicitly addressed. Release events
// complete the key press and issue no remote call.
func (r *Registry) SendPassThrough(key avrcp.KeyCode, state avrcp.KeyState) error {
	op, ok := avrcp.PassthroughOp(key)
	if !ok {
		return localCallError(errorkinds.ErrUnsupported,
			"Unrecognized media control key code",
			"error_at", "registry-passthrough-key",
			"address", r.address,
		)
	}

	if state == avrcp.KeyReleased {
		return nil
	}

	p, err := r.target()
	if err != nil {
		return err
	}

	if err := r.bus.Call(dbh.BluezBusName, p.path, dbh.BluezMediaPlayerIface+"."+op, nil); err != nil {
		return remoteCallError(err,
			"Cannot send '"+key.String()+"' media control command to device",
			"error_at", "registry-passthrough-call",
			"address", r.address,
		)
	}

	return nil
}

// TogglePlayPause toggles between the play and pause states of the
// target player, based on its mirrored status.
func (r *Registry) TogglePlayPause() error {
	p, err := r.target()
	if err != nil {
		return err
	}

	switch p.snapshot().Status.Status {
	case avrcp.MediaPlaying:
		return r.SendPassThrough(avrcp.KeyPause, avrcp.KeyPressed)
	case avrcp.MediaPaused, avrcp.MediaStopped:
		return r.SendPassThrough(avrcp.KeyPlay, avrcp.KeyPressed)
	}

	return nil
}

// SetApplicationSettings applies the provided settings key by key. The
// first failing write aborts the remaining writes.
func (r *Registry) SetApplicationSettings(settings avrcp.Settings) error {
	p, err := r.target()
	if err != nil {
		return err
	}

	writes := []struct {
		property string
		value    string
	}{
		{"Equalizer", string(settings.Equalizer)},
		{"Repeat", string(settings.Repeat)},
		{"Shuffle", string(settings.Shuffle)},
		{"Scan", string(settings.Scan)},
	}

	for _, write := range writes {
		if write.value == "" {
			continue
		}

		if err := r.bus.SetProperty(dbh.BluezBusName, p.path,
			dbh.BluezMediaPlayerIface, write.property, write.value); err != nil {
			return remoteCallError(err,
				"Cannot apply the '"+write.property+"' player setting",
				"error_at", "registry-settings-write",
				"address", r.address,
			)
		}
	}

	return nil
}

// NumberOfItems returns the number of items in the browsed folder of the
// player at the provided canonical path.
func (r *Registry) NumberOfItems(relPath string) (uint32, error) {
	nav, err := r.resolveNavigator(relPath)
	if err != nil {
		return 0, err
	}

	return nav.NumberOfItems()
}

// ListItems lists the browsed folder of the player at the provided
// canonical path, bounded by the inclusive [start, end] index range.
func (r *Registry) ListItems(relPath string, start, end uint32) ([]avrcp.FolderItemData, error) {
	nav, err := r.resolveNavigator(relPath)
	if err != nil {
		return nil, err
	}

	return nav.ListItems(start, end)
}

// ChangeFolder descends into the folder item at the provided canonical
// item path.
func (r *Registry) ChangeFolder(relPath, itemPath string) error {
	nav, err := r.resolveNavigator(relPath)
	if err != nil {
		return err
	}

	return nav.ChangeFolder(itemPath)
}

// PlayItem plays the item at the provided canonical item path.
func (r *Registry) PlayItem(relPath, itemPath string) error {
	nav, err := r.resolveNavigator(relPath)
	if err != nil {
		return err
	}

	return nav.PlayItem(itemPath)
}

// AddToNowPlaying appends the item at the provided canonical item path
// to the now playing list.
func (r *Registry) AddToNowPlaying(relPath, itemPath string) error {
	nav, err := r.resolveNavigator(relPath)
	if err != nil {
		return err
	}

	return nav.AddToNowPlaying(itemPath)
}

// resolvePlayer maps a canonical relative player path to its entry.
func (r *Registry) resolvePlayer(relPath string) (*player, error) {
	playerPath := dbus.ObjectPath(path.Join(string(r.devicePath), relPath))

	p, ok := r.players.Load(playerPath)
	if !ok {
		return nil, localCallError(errorkinds.ErrInvalidParameter,
			"No media player exists at this path",
			"error_at", "registry-resolve-player",
			"address", r.address,
			"player", relPath,
		)
	}

	return p, nil
}

// resolveNavigator maps a canonical relative player path to its browsing
// navigator. Players without the folder capability fail fast.
func (r *Registry) resolveNavigator(relPath string) (*Navigator, error) {
	p, err := r.resolvePlayer(relPath)
	if err != nil {
		return nil, err
	}

	nav := p.navigator()
	if nav == nil {
		return nil, localCallError(errors.Join(errorkinds.ErrNotAllowed, errorkinds.ErrNotBrowsable),
			"Player does not expose a browsable folder",
			"error_at", "registry-resolve-navigator",
			"address", r.address,
			"player", relPath,
		)
	}

	return nav, nil
}

// target returns the addressed player, or the sole mirrored player when
// none is explicitly addressed.
func (r *Registry) target() (*player, error) {
	r.mu.Lock()
	addressed := r.addressed
	r.mu.Unlock()

	if p, ok := r.players.Load(addressed); ok {
		return p, nil
	}

	var sole *player
	if r.players.Size() == 1 {
		r.players.Range(func(_ dbus.ObjectPath, p *player) bool {
			sole = p

			return false
		})
	}

	if sole == nil {
		return nil, localCallError(errorkinds.ErrPlayerNotFound,
			"No media player is available for this device",
			"error_at", "registry-target",
			"address", r.address,
		)
	}

	return sole, nil
}

func (r *Registry) publishStatus(p *player) {
	p.mu.Lock()
	data := p.data
	p.mu.Unlock()

	avrcp.StatusEvents().PublishUpdated(avrcp.StatusEventData{
		Path:       data.Path,
		PlayStatus: data.Status,
	})
}

func (r *Registry) publishSetting(p *player, key, value string) {
	var (
		kind   avrcp.SettingKind
		parsed string
	)

	switch key {
	case "Equalizer":
		kind, parsed = avrcp.SettingEqualizer, string(avrcp.ParseEqualizerMode(value))
	case "Repeat":
		kind, parsed = avrcp.SettingRepeat, string(avrcp.ParseRepeatMode(value))
	case "Shuffle":
		kind, parsed = avrcp.SettingShuffle, string(avrcp.ParseShuffleMode(value))
	case "Scan":
		kind, parsed = avrcp.SettingScan, string(avrcp.ParseShuffleMode(value))
	}

	avrcp.SettingEvents().PublishUpdated(avrcp.SettingEventData{
		Path:  p.snapshot().Path,
		Kind:  kind,
		Value: parsed,
	})
}
