//go:build linux

package linux

import (
	"errors"
	"testing"

	"github.com/darkhz/avremote/api/avrcp"
	dbh "github.com/darkhz/avremote/linux/internal/dbushelper"
	"github.com/godbus/dbus/v5"
	"github.com/puzpuzpuz/xsync/v3"
)

func newTestSession(bus Bus) *Session {
	return &Session{
		bus:         bus,
		adapterPath: testAdapterPath,
		registries:  xsync.NewMapOf[dbus.ObjectPath, *Registry](),
	}
}

func controlChangedSignal(path dbus.ObjectPath, props map[string]dbus.Variant) *dbus.Signal {
	return &dbus.Signal{
		Name: dbh.DbusSignalPropertyChangedIface,
		Path: path,
		Body: []any{dbh.BluezMediaControlIface, props},
	}
}

func TestControlConnectsBeforeAnyPlayer(t *testing.T) {
	sub, ok := avrcp.ConnectionEvents().Subscribe()
	if !ok {
		t.Fatalf("subscription failed")
	}
	defer sub.Unsubscribe()

	s := newTestSession(newFakeBus())

	// The usual BlueZ ordering: the control endpoint reports a
	// connection before any player object exists on the device.
	s.parseSignalData(controlChangedSignal(testDevicePath, map[string]dbus.Variant{
		"Connected": dbus.MakeVariant(true),
	}))

	event := recvEvent(t, sub.UpdatedEvents)
	if event.Address != "AA:BB:CC:DD:EE:FF" || !event.Connected {
		t.Fatalf("connection event = %+v", event)
	}

	// A player appearing later lands in the same registry.
	s.parseSignalData(&dbus.Signal{
		Name: dbh.DbusSignalInterfacesAddedIface,
		Path: testPlayerPath,
		Body: []any{
			dbus.ObjectPath(testPlayerPath),
			map[string]map[string]dbus.Variant{
				dbh.BluezMediaPlayerIface: playerProps("one"),
			},
		},
	})

	registry, err := s.Registry("AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if len(registry.Players()) != 1 {
		t.Fatalf("players = %+v", registry.Players())
	}
}

func TestControlSignalOfOtherAdapterIsIgnored(t *testing.T) {
	sub, ok := avrcp.ConnectionEvents().Subscribe()
	if !ok {
		t.Fatalf("subscription failed")
	}
	defer sub.Unsubscribe()

	s := newTestSession(newFakeBus())

	s.parseSignalData(controlChangedSignal("/org/bluez/hci1/dev_11_22_33_44_55_66",
		map[string]dbus.Variant{"Connected": dbus.MakeVariant(true)}))

	expectNoEvent(t, sub.UpdatedEvents)
	if s.registries.Size() != 0 {
		t.Fatalf("a registry was created for another adapter's device")
	}
}

func TestRefreshSeedsPlayerlessControlState(t *testing.T) {
	sub, ok := avrcp.ConnectionEvents().Subscribe()
	if !ok {
		t.Fatalf("subscription failed")
	}
	defer sub.Unsubscribe()

	bus := newFakeBus()
	bus.managed = map[dbus.ObjectPath]map[string]map[string]dbus.Variant{
		testDevicePath: {
			dbh.BluezDeviceIface: {
				"Address": dbus.MakeVariant("AA:BB:CC:DD:EE:FF"),
			},
			dbh.BluezMediaControlIface: {
				"Connected": dbus.MakeVariant(true),
			},
		},
	}

	s := newTestSession(bus)
	if err := s.refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Priming is silent, and the mirrored state survives for diffing: a
	// later re-announcement of the same status is not a transition.
	expectNoEvent(t, sub.UpdatedEvents)

	if _, err := s.Registry("AA:BB:CC:DD:EE:FF"); err != nil {
		t.Fatalf("Registry: %v", err)
	}

	s.parseSignalData(controlChangedSignal(testDevicePath, map[string]dbus.Variant{
		"Connected": dbus.MakeVariant(true),
	}))
	expectNoEvent(t, sub.UpdatedEvents)

	s.parseSignalData(controlChangedSignal(testDevicePath, map[string]dbus.Variant{
		"Connected": dbus.MakeVariant(false),
	}))
	event := recvEvent(t, sub.UpdatedEvents)
	if event.Connected {
		t.Fatalf("connection event = %+v", event)
	}
}

func TestModemSignalWithoutValueForcesRefresh(t *testing.T) {
	sub, ok := avrcp.ConnectionEvents().Subscribe()
	if !ok {
		t.Fatalf("subscription failed")
	}
	defer sub.Unsubscribe()

	bus := newFakeBus()
	s := newTestSession(bus)
	s.modems = NewModemWatcher(bus, testAdapterPath)

	s.modems.AddModem(testModemPath, modemProps(dbh.OfonoHandsfreeIface))
	recvEvent(t, sub.UpdatedEvents)

	// A property signal with no inline value forces a re-read; a modem
	// that no longer answers is treated as removed.
	bus.callErr[dbh.OfonoModemIface+".GetProperties"] = errors.New("no reply")
	s.parseSignalData(&dbus.Signal{
		Name: dbh.OfonoSignalPropertyChanged,
		Path: testModemPath,
		Body: []any{"Interfaces"},
	})

	event := recvEvent(t, sub.UpdatedEvents)
	if event.Connected {
		t.Fatalf("a vanished modem was not treated as disconnected")
	}
}
