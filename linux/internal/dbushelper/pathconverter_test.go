//go:build linux

package dbushelper

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

const testPlayer = dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF/player0")

func TestRelativePathKeepsAnchorSegment(t *testing.T) {
	cases := []struct {
		raw  dbus.ObjectPath
		want string
	}{
		{testPlayer, "player0"},
		{testPlayer + "/item3", "player0/item3"},
		{testPlayer + "/Filesystem/item12", "player0/Filesystem/item12"},
	}

	for _, c := range cases {
		if got := RelativePath(testPlayer, c.raw); got != c.want {
			t.Fatalf("RelativePath(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestAbsolutePathRoundTrip(t *testing.T) {
	relatives := []string{
		"player0",
		"player0/item3",
		"player0/NowPlaying/item7",
	}

	for _, rel := range relatives {
		absolute := AbsolutePath(testPlayer, rel)
		if got := RelativePath(testPlayer, absolute); got != rel {
			t.Fatalf("round trip of %q through %q gave %q", rel, absolute, got)
		}
	}
}

func TestAbsolutePathUsesPlayerPrefix(t *testing.T) {
	got := AbsolutePath(testPlayer, "player0/item3")
	want := dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF/player0/item3")

	if got != want {
		t.Fatalf("AbsolutePath = %q, want %q", got, want)
	}
}

func TestDeviceAddress(t *testing.T) {
	address, ok := DeviceAddress("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF")
	if !ok || address != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("DeviceAddress = %q, %v", address, ok)
	}

	if _, ok := DeviceAddress("/org/bluez/hci0"); ok {
		t.Fatalf("a path without a device segment resolved to an address")
	}

	address, ok = DeviceAddress(testPlayer)
	if !ok || address != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("the device segment was not found mid-path: %q, %v", address, ok)
	}
}

func TestPathConverterMappings(t *testing.T) {
	devicePath := dbus.ObjectPath("/org/bluez/hci0/dev_11_22_33_44_55_66")

	PathConverter.AddDbusPath(DbusPathDevice, devicePath, "11:22:33:44:55:66")
	defer PathConverter.RemoveDbusPath(DbusPathDevice, devicePath)

	address, ok := PathConverter.Address(DbusPathDevice, devicePath)
	if !ok || address != "11:22:33:44:55:66" {
		t.Fatalf("Address = %q, %v", address, ok)
	}

	resolved, ok := PathConverter.DbusPath(DbusPathDevice, "11:22:33:44:55:66")
	if !ok || resolved != devicePath {
		t.Fatalf("DbusPath = %q, %v", resolved, ok)
	}

	if _, ok := PathConverter.Address(DbusPathModem, devicePath); ok {
		t.Fatalf("a device mapping resolved under the modem path type")
	}

	PathConverter.RemoveDbusPath(DbusPathDevice, devicePath)
	if _, ok := PathConverter.Address(DbusPathDevice, devicePath); ok {
		t.Fatalf("a removed mapping still resolved")
	}
}
