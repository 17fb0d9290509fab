//go:build linux

package linux

import (
	"errors"
	"testing"

	"github.com/darkhz/avremote/api/avrcp"
	dbh "github.com/darkhz/avremote/linux/internal/dbushelper"
	"github.com/godbus/dbus/v5"
)

const (
	testAdapterPath = dbus.ObjectPath("/org/bluez/hci0")
	testModemPath   = dbus.ObjectPath(dbh.OfonoHfpMarker + string(testDevicePath))
)

func newTestWatcher(bus Bus) *ModemWatcher {
	return NewModemWatcher(bus, testAdapterPath)
}

func modemProps(ifaces ...string) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"Interfaces": dbus.MakeVariant(ifaces),
	}
}

func TestAddModemScopesToAdapter(t *testing.T) {
	watcher := newTestWatcher(newFakeBus())

	watcher.AddModem(testModemPath, modemProps())
	defer watcher.RemoveModem(testModemPath)

	if _, ok := watcher.modems.Load(testModemPath); !ok {
		t.Fatalf("a modem scoped to the local adapter was not tracked")
	}

	foreign := dbus.ObjectPath(dbh.OfonoHfpMarker + "/org/bluez/hci1/dev_11_22_33_44_55_66")
	watcher.AddModem(foreign, modemProps())
	if _, ok := watcher.modems.Load(foreign); ok {
		t.Fatalf("a modem of another adapter was tracked")
	}
}

func TestHandsfreeStatusIsDiffGated(t *testing.T) {
	sub, ok := avrcp.ConnectionEvents().Subscribe()
	if !ok {
		t.Fatalf("subscription failed")
	}
	defer sub.Unsubscribe()

	watcher := newTestWatcher(newFakeBus())

	// The initial snapshot reports no hands-free capability; a modem
	// starts out disconnected, so nothing is announced.
	watcher.AddModem(testModemPath, modemProps(dbh.OfonoModemIface))
	defer watcher.RemoveModem(testModemPath)
	expectNoEvent(t, sub.UpdatedEvents)

	watcher.UpdateProperty(testModemPath, "Interfaces",
		[]string{dbh.OfonoModemIface, dbh.OfonoHandsfreeIface})
	event := recvEvent(t, sub.UpdatedEvents)
	if event.Address != "AA:BB:CC:DD:EE:FF" || !event.Connected {
		t.Fatalf("hands-free event = %+v", event)
	}

	// Re-announcing the same capability set is not a transition.
	watcher.UpdateProperty(testModemPath, "Interfaces",
		[]string{dbh.OfonoModemIface, dbh.OfonoHandsfreeIface})
	expectNoEvent(t, sub.UpdatedEvents)

	watcher.UpdateProperty(testModemPath, "Interfaces",
		[]string{dbh.OfonoModemIface})
	event = recvEvent(t, sub.UpdatedEvents)
	if event.Connected {
		t.Fatalf("dropping the hands-free capability did not disconnect")
	}
}

func TestAddModemWithHandsfreeAnnouncesImmediately(t *testing.T) {
	sub, ok := avrcp.ConnectionEvents().Subscribe()
	if !ok {
		t.Fatalf("subscription failed")
	}
	defer sub.Unsubscribe()

	watcher := newTestWatcher(newFakeBus())

	watcher.AddModem(testModemPath, modemProps(dbh.OfonoHandsfreeIface))
	defer watcher.RemoveModem(testModemPath)

	event := recvEvent(t, sub.UpdatedEvents)
	if !event.Connected {
		t.Fatalf("an initially hands-free modem was not announced as connected")
	}
}

func TestRemoveModemForcesDisconnect(t *testing.T) {
	sub, ok := avrcp.ConnectionEvents().Subscribe()
	if !ok {
		t.Fatalf("subscription failed")
	}
	defer sub.Unsubscribe()

	watcher := newTestWatcher(newFakeBus())

	watcher.AddModem(testModemPath, modemProps(dbh.OfonoHandsfreeIface))
	recvEvent(t, sub.UpdatedEvents)

	watcher.RemoveModem(testModemPath)
	event := recvEvent(t, sub.UpdatedEvents)
	if event.Connected {
		t.Fatalf("removing a modem did not force a disconnect")
	}

	if _, ok := dbh.PathConverter.Address(dbh.DbusPathModem, testModemPath); ok {
		t.Fatalf("the modem path mapping survived removal")
	}
}

func TestRefreshTreatsQueryFailureAsRemoval(t *testing.T) {
	sub, ok := avrcp.ConnectionEvents().Subscribe()
	if !ok {
		t.Fatalf("subscription failed")
	}
	defer sub.Unsubscribe()

	bus := newFakeBus()
	watcher := newTestWatcher(bus)

	watcher.AddModem(testModemPath, modemProps(dbh.OfonoHandsfreeIface))
	recvEvent(t, sub.UpdatedEvents)

	bus.callErr[dbh.OfonoModemIface+".GetProperties"] = errors.New("no reply")
	watcher.Refresh(testModemPath)

	event := recvEvent(t, sub.UpdatedEvents)
	if event.Connected {
		t.Fatalf("a vanished modem was not treated as disconnected")
	}
	if _, ok := watcher.modems.Load(testModemPath); ok {
		t.Fatalf("a vanished modem was still tracked")
	}
}
