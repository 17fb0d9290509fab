//go:build linux

package dbushelper

import (
	"path"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/puzpuzpuz/xsync/v3"
)

// DbusPathType represents the type of DBus path known to the session.
// For example, adapter paths will have a path type of DbusPathAdapter and
// will be mapped to an adapter address (/org/bluez/hci0 => DbusPathAdapter).
type DbusPathType int

// The different DBus path types.
const (
	DbusPathDevice DbusPathType = iota
	DbusPathAdapter
	DbusPathModem
)

// dbusPath holds a DBus path and its type.
type dbusPath struct {
	pathType DbusPathType
	path     dbus.ObjectPath
}

// dbusPathConverter holds a list of DBus paths and maps them to their
// respective Bluetooth addresses.
type dbusPathConverter struct {
	paths *xsync.MapOf[dbusPath, string]
}

// PathConverter is used to obtain respective Bluetooth addresses that are
// mapped to DBus paths. This is mainly used to identify adapters, devices
// and modems.
var PathConverter = dbusPathConverter{paths: xsync.NewMapOf[dbusPath, string]()}

// AddDbusPath adds a mapping of a DBus path and a Bluetooth address to the path converter.
func (d *dbusPathConverter) AddDbusPath(pathType DbusPathType, path dbus.ObjectPath, address string) {
	d.paths.Store(dbusPath{pathType: pathType, path: path}, address)
}

// RemoveDbusPath removes a mapping of a DBus path and a Bluetooth address from the path converter.
func (d *dbusPathConverter) RemoveDbusPath(pathType DbusPathType, path dbus.ObjectPath) {
	d.paths.Delete(dbusPath{pathType: pathType, path: path})
}

// Address returns a Bluetooth address that is mapped to the provided DBus path.
func (d *dbusPathConverter) Address(pathType DbusPathType, path dbus.ObjectPath) (string, bool) {
	return d.paths.Load(dbusPath{pathType: pathType, path: path})
}

// DbusPath returns a DBus path that is mapped to the provided Bluetooth address.
func (d *dbusPathConverter) DbusPath(pathType DbusPathType, address string) (dbus.ObjectPath, bool) {
	var dpath dbus.ObjectPath

	d.paths.Range(func(p dbusPath, addr string) bool {
		if address == addr && p.pathType == pathType {
			dpath = p.path

			return false
		}

		return true
	})

	return dpath, dpath != ""
}

// RelativePath rewrites a transport-assigned object path to its canonical
// relative form: the player's anchor segment and everything after it. The
// address-specific prefix preceding the anchor is discarded so observers
// never depend on bus topology.
func RelativePath(player dbus.ObjectPath, raw dbus.ObjectPath) string {
	prefix := path.Dir(string(player))
	if prefix == "/" || prefix == "." {
		return strings.TrimPrefix(string(raw), "/")
	}

	return strings.TrimPrefix(string(raw), prefix+"/")
}

// AbsolutePath rewrites a canonical relative path back to the
// transport-assigned form, by joining the player's own absolute prefix
// (its path with the anchor segment removed) with the relative path.
// For any observer-supplied relative path P,
// RelativePath(player, AbsolutePath(player, P)) == P.
func AbsolutePath(player dbus.ObjectPath, relative string) dbus.ObjectPath {
	return dbus.ObjectPath(path.Join(path.Dir(string(player)), relative))
}

// DeviceAddress derives the Bluetooth address encoded in a Bluez device
// path segment of the form "dev_AA_BB_CC_DD_EE_FF".
func DeviceAddress(devicePath dbus.ObjectPath) (string, bool) {
	for _, segment := range strings.Split(string(devicePath), "/") {
		if rest, ok := strings.CutPrefix(segment, "dev_"); ok {
			return strings.ReplaceAll(rest, "_", ":"), true
		}
	}

	return "", false
}
