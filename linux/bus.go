//go:build linux

package linux

import (
	"github.com/godbus/dbus/v5"
)

// Bus describes the narrow set of DBus operations the session core
// performs against the transport. The concrete implementation wraps a
// system bus connection; tests substitute a fake.
type Bus interface {
	// Call invokes a method on the object at path and stores its reply
	// into ret, which may be nil when the method returns nothing.
	Call(busName string, path dbus.ObjectPath, method string, ret any, args ...any) error

	// GetProperty reads a single property of the object at path.
	GetProperty(busName string, path dbus.ObjectPath, iface, property string) (dbus.Variant, error)

	// GetAllProperties reads a property snapshot of the object at path.
	GetAllProperties(busName string, path dbus.ObjectPath, iface string) (map[string]dbus.Variant, error)

	// SetProperty writes a single property of the object at path.
	SetProperty(busName string, path dbus.ObjectPath, iface, property string, value any) error
}

// systemBus implements Bus against a DBus connection.
type systemBus struct {
	conn *dbus.Conn
}

func (s *systemBus) Call(busName string, path dbus.ObjectPath, method string, ret any, args ...any) error {
	call := s.conn.Object(busName, path).Call(method, 0, args...)
	if ret == nil {
		return call.Err
	}

	return call.Store(ret)
}

func (s *systemBus) GetProperty(busName string, path dbus.ObjectPath, iface, property string) (dbus.Variant, error) {
	var result dbus.Variant

	if err := s.conn.Object(busName, path).
		Call("org.freedesktop.DBus.Properties.Get", 0, iface, property).
		Store(&result); err != nil {
		return dbus.Variant{}, err
	}

	return result, nil
}

func (s *systemBus) GetAllProperties(busName string, path dbus.ObjectPath, iface string) (map[string]dbus.Variant, error) {
	result := make(map[string]dbus.Variant)

	if err := s.conn.Object(busName, path).
		Call("org.freedesktop.DBus.Properties.GetAll", 0, iface).
		Store(&result); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *systemBus) SetProperty(busName string, path dbus.ObjectPath, iface, property string, value any) error {
	return s.conn.Object(busName, path).
		Call("org.freedesktop.DBus.Properties.Set", 0, iface, property, dbus.MakeVariant(value)).
		Err
}
