//go:build linux

package linux

import (
	"slices"
	"strings"

	"github.com/darkhz/avremote/api/avrcp"
	"github.com/darkhz/avremote/api/helpers/statediff"
	dbh "github.com/darkhz/avremote/linux/internal/dbushelper"
	"github.com/godbus/dbus/v5"
	"github.com/puzpuzpuz/xsync/v3"
)

// ModemWatcher tracks the telephony modems that are scoped to the local
// adapter and derives a hands-free connection status from their
// interface capability set.
type ModemWatcher struct {
	bus         Bus
	adapterPath dbus.ObjectPath

	modems *xsync.MapOf[dbus.ObjectPath, *modem]
}

// modem holds the state of one matching telephony modem.
type modem struct {
	address string
	cache   *statediff.Cache
}

// NewModemWatcher returns a watcher scoped to the provided adapter path.
func NewModemWatcher(bus Bus, adapterPath dbus.ObjectPath) *ModemWatcher {
	return &ModemWatcher{
		bus:         bus,
		adapterPath: adapterPath,
		modems:      xsync.NewMapOf[dbus.ObjectPath, *modem](),
	}
}

// Start discovers the currently present modems.
func (w *ModemWatcher) Start() error {
	var raw []struct {
		Path       dbus.ObjectPath
		Properties map[string]dbus.Variant
	}

	if err := w.bus.Call(dbh.OfonoBusName, "/",
		dbh.OfonoManagerIface+".GetModems", &raw); err != nil {
		return remoteCallError(err,
			"Cannot list telephony modems",
			"error_at", "telephony-get-modems",
		)
	}

	for _, entry := range raw {
		w.AddModem(entry.Path, entry.Properties)
	}

	return nil
}

// AddModem starts tracking the modem at the provided path if it is
// scoped to the local adapter.
func (w *ModemWatcher) AddModem(modemPath dbus.ObjectPath, props map[string]dbus.Variant) {
	devicePath, ok := w.match(modemPath)
	if !ok {
		return
	}

	address, ok := dbh.DeviceAddress(devicePath)
	if !ok {
		return
	}

	m := &modem{
		address: address,
		cache:   statediff.NewCache(),
	}
	// A modem starts out disconnected; only a transition notifies.
	m.cache.Seed(map[string]any{"HandsfreeConnected": false})
	w.modems.Store(modemPath, m)
	dbh.PathConverter.AddDbusPath(dbh.DbusPathModem, modemPath, address)

	if variant, ok := props["Interfaces"]; ok {
		w.applyInterfaces(m, variant.Value())
	}
}

// RemoveModem stops tracking the modem at the provided path, forcing its
// connection status to false.
func (w *ModemWatcher) RemoveModem(modemPath dbus.ObjectPath) {
	m, ok := w.modems.LoadAndDelete(modemPath)
	if !ok {
		return
	}

	dbh.PathConverter.RemoveDbusPath(dbh.DbusPathModem, modemPath)
	w.setConnected(m, false)
}

// UpdateProperty consumes one modem property change. Any batch carrying
// the interface capability set recomputes the hands-free status.
func (w *ModemWatcher) UpdateProperty(modemPath dbus.ObjectPath, name string, value any) {
	m, ok := w.modems.Load(modemPath)
	if !ok {
		return
	}

	if name == "Interfaces" {
		w.applyInterfaces(m, value)
	}
}

// Refresh re-reads the modem's property snapshot. A failing query means
// the object has disappeared; the modem is treated as removed.
func (w *ModemWatcher) Refresh(modemPath dbus.ObjectPath) {
	m, ok := w.modems.Load(modemPath)
	if !ok {
		return
	}

	props := make(map[string]dbus.Variant)
	if err := w.bus.Call(dbh.OfonoBusName, modemPath,
		dbh.OfonoModemIface+".GetProperties", &props); err != nil {
		w.RemoveModem(modemPath)

		return
	}

	if variant, ok := props["Interfaces"]; ok {
		w.applyInterfaces(m, variant.Value())
	}
}

// match reports whether the modem path, with the profile marker segment
// removed, prefix-matches the local adapter path. It returns the
// underlying device path.
func (w *ModemWatcher) match(modemPath dbus.ObjectPath) (dbus.ObjectPath, bool) {
	stripped := strings.TrimPrefix(string(modemPath), dbh.OfonoHfpMarker)
	if !strings.HasPrefix(stripped, string(w.adapterPath)) {
		return "", false
	}

	return dbus.ObjectPath(stripped), true
}

// applyInterfaces recomputes the hands-free flag from an interface
// capability list.
func (w *ModemWatcher) applyInterfaces(m *modem, value any) {
	ifaces, ok := value.([]string)
	if !ok {
		return
	}

	w.setConnected(m, slices.Contains(ifaces, dbh.OfonoHandsfreeIface))
}

// setConnected pushes the hands-free status through the diff gate shared
// with the media connection path.
func (w *ModemWatcher) setConnected(m *modem, connected bool) {
	if !m.cache.Apply("HandsfreeConnected", connected) {
		return
	}

	avrcp.ConnectionEvents().PublishUpdated(avrcp.ConnectionEventData{
		Address:   m.address,
		Connected: connected,
	})
}
