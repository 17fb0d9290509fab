//go:build linux

package linux

import (
	"github.com/darkhz/avremote/api/avrcp"
	"github.com/darkhz/avremote/api/errorkinds"
	"github.com/darkhz/avremote/api/helpers/statediff"
	dbh "github.com/darkhz/avremote/linux/internal/dbushelper"
	"github.com/godbus/dbus/v5"
	"github.com/rs/xid"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

// listedItem holds one raw entry of a folder listing reply.
type listedItem struct {
	Path       dbus.ObjectPath
	Properties map[string]dbus.Variant
}

// Navigator implements folder and item browsing against the folder
// endpoint of one player. Item paths crossing the observer boundary are
// always in canonical relative form.
type Navigator struct {
	bus    Bus
	player dbus.ObjectPath
	id     string

	cache *statediff.Cache

	// listing enforces the single-outstanding constraint on the folder
	// endpoint: an overlapping listing call is rejected, not queued.
	listing *semaphore.Weighted

	closed atomic.Bool
}

// newNavigator returns a navigator bound to the player's folder endpoint.
func newNavigator(bus Bus, player dbus.ObjectPath) *Navigator {
	return &Navigator{
		bus:     bus,
		player:  player,
		id:      xid.New().String(),
		cache:   statediff.NewCache(),
		listing: semaphore.NewWeighted(1),
	}
}

// destroy marks the navigator as gone. Completions of calls that were
// outstanding at destruction become no-ops.
func (n *Navigator) destroy() {
	n.closed.Store(true)
}

// NumberOfItems returns the number of items in the currently browsed
// folder. On remote failure the count is zero.
func (n *Navigator) NumberOfItems() (uint32, error) {
	variant, err := n.bus.GetProperty(dbh.BluezBusName, n.player,
		dbh.BluezMediaFolderIface, "NumberOfItems")
	if err != nil {
		return 0, remoteCallError(err,
			"Cannot read the item count of the browsed folder",
			"error_at", "browsing-item-count",
			"navigator", n.id,
			"player", string(n.player),
		)
	}

	count, ok := variant.Value().(uint32)
	if !ok {
		return 0, remoteCallError(errorkinds.ErrPropertyDataParse,
			"Cannot read the item count of the browsed folder",
			"error_at", "browsing-item-count-decode",
			"navigator", n.id,
			"player", string(n.player),
		)
	}

	return count, nil
}

// ListItems lists the currently browsed folder, bounded by the inclusive
// [start, end] index range. The call is single-outstanding per
// navigator; a second overlapping call is rejected.
func (n *Navigator) ListItems(start, end uint32) ([]avrcp.FolderItemData, error) {
	if end < start {
		return nil, localCallError(errorkinds.ErrInvalidParameter,
			"The listing range end precedes its start",
			"error_at", "browsing-list-range",
			"navigator", n.id,
			"player", string(n.player),
		)
	}

	if !n.listing.TryAcquire(1) {
		return nil, localCallError(errorkinds.ErrCallInProgress,
			"A listing call is already outstanding on this folder",
			"error_at", "browsing-list-overlap",
			"navigator", n.id,
			"player", string(n.player),
		)
	}
	defer n.listing.Release(1)

	filter := map[string]any{
		"Start": start,
		"End":   end,
	}

	var raw []listedItem
	err := n.bus.Call(dbh.BluezBusName, n.player,
		dbh.BluezMediaFolderIface+".ListItems", &raw, filter)

	if n.closed.Load() {
		return nil, nil
	}
	if err != nil {
		return nil, remoteCallError(err,
			"Cannot list the browsed folder",
			"error_at", "browsing-list-call",
			"navigator", n.id,
			"player", string(n.player),
		)
	}

	items := make([]avrcp.FolderItemData, 0, len(raw))
	for _, entry := range raw {
		items = append(items, n.decodeItem(entry))
	}

	return items, nil
}

// ChangeFolder descends into the folder item at the provided canonical
// path. Items that do not resolve to a folder never invoke the remote
// change operation.
func (n *Navigator) ChangeFolder(itemPath string) error {
	absolute := dbh.AbsolutePath(n.player, itemPath)

	props, err := n.resolveItem(absolute)
	if err != nil {
		return remoteCallError(err,
			"Cannot resolve the item to change into",
			"error_at", "browsing-change-resolve",
			"navigator", n.id,
			"item", itemPath,
		)
	}

	itemType, ok := props["Type"].Value().(string)
	if !ok {
		return remoteCallError(errorkinds.ErrPropertyDataParse,
			"The item to change into reports no type",
			"error_at", "browsing-change-type",
			"navigator", n.id,
			"item", itemPath,
		)
	}

	if itemType != string(avrcp.ItemFolder) {
		return localCallError(errorkinds.ErrNotAFolder,
			"The item to change into is not a folder",
			"error_at", "browsing-change-gate",
			"navigator", n.id,
			"item", itemPath,
		)
	}

	if err := n.bus.Call(dbh.BluezBusName, n.player,
		dbh.BluezMediaFolderIface+".ChangeFolder", nil, absolute); err != nil {
		return remoteCallError(err,
			"Cannot change into the folder",
			"error_at", "browsing-change-call",
			"navigator", n.id,
			"item", itemPath,
		)
	}

	return nil
}

// PlayItem plays the item at the provided canonical path. Items whose
// playable flag is unset never invoke the remote play operation.
func (n *Navigator) PlayItem(itemPath string) error {
	absolute, err := n.resolvePlayable(itemPath)
	if err != nil {
		return err
	}

	if err := n.bus.Call(dbh.BluezBusName, absolute,
		dbh.BluezMediaItemIface+".Play", nil); err != nil {
		return remoteCallError(err,
			"Cannot play the item",
			"error_at", "browsing-play-call",
			"navigator", n.id,
			"item", itemPath,
		)
	}

	return nil
}

// AddToNowPlaying appends the item at the provided canonical path to the
// now playing list. The same playability gate as PlayItem applies; peers
// that do not implement the operation surface ErrNotAllowed.
func (n *Navigator) AddToNowPlaying(itemPath string) error {
	absolute, err := n.resolvePlayable(itemPath)
	if err != nil {
		return err
	}

	if err := n.bus.Call(dbh.BluezBusName, absolute,
		dbh.BluezMediaItemIface+".AddtoNowPlaying", nil); err != nil {
		return remoteCallError(err,
			"Cannot add the item to the now playing list",
			"error_at", "browsing-nowplaying-call",
			"navigator", n.id,
			"item", itemPath,
		)
	}

	return nil
}

// updateProperties consumes a property change batch of the folder
// endpoint itself and notifies when the browsed folder changed.
func (n *Navigator) updateProperties(variants map[string]dbus.Variant) {
	if n.closed.Load() {
		return
	}

	for key, variant := range variants {
		if key != "Name" {
			continue
		}

		name, ok := variant.Value().(string)
		if !ok {
			continue
		}

		if n.cache.Apply(key, name) {
			avrcp.FolderEvents().PublishUpdated(avrcp.FolderEventData{
				Path:   dbh.RelativePath(n.player, n.player),
				Folder: name,
			})
		}
	}
}

// resolvePlayable resolves an item and applies the playability gate
// shared by PlayItem and AddToNowPlaying.
func (n *Navigator) resolvePlayable(itemPath string) (dbus.ObjectPath, error) {
	absolute := dbh.AbsolutePath(n.player, itemPath)

	props, err := n.resolveItem(absolute)
	if err != nil {
		return "", remoteCallError(err,
			"Cannot resolve the item to play",
			"error_at", "browsing-resolve-playable",
			"navigator", n.id,
			"item", itemPath,
		)
	}

	playable, _ := props["Playable"].Value().(bool)
	if !playable {
		return "", localCallError(errorkinds.ErrItemNotPlayable,
			"The item is not playable",
			"error_at", "browsing-playable-gate",
			"navigator", n.id,
			"item", itemPath,
		)
	}

	return absolute, nil
}

// resolveItem reads the property snapshot of a remote item.
func (n *Navigator) resolveItem(itemPath dbus.ObjectPath) (map[string]dbus.Variant, error) {
	return n.bus.GetAllProperties(dbh.BluezBusName, itemPath, dbh.BluezMediaItemIface)
}

// decodeItem converts one raw listing entry into a folder item, with the
// item path rewritten to its canonical relative form.
func (n *Navigator) decodeItem(entry listedItem) avrcp.FolderItemData {
	item := avrcp.FolderItemData{
		Path: dbh.RelativePath(n.player, entry.Path),
		Type: avrcp.ItemAudio,
	}

	if name, ok := entry.Properties["Name"].Value().(string); ok {
		item.Name = name
	}
	if itemType, ok := entry.Properties["Type"].Value().(string); ok {
		item.Type = avrcp.ParseItemType(itemType)
	}
	if playable, ok := entry.Properties["Playable"].Value().(bool); ok {
		item.Playable = playable
	}

	if bundle, ok := entry.Properties["Metadata"].Value().(map[string]dbus.Variant); ok {
		if track, err := dbh.DecodeTrack(bundle); err == nil {
			item.Track = track
		}
	}

	return item
}
