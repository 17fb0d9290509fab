//go:build linux

package linux

import (
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

// fakeBus implements Bus against canned replies, recording every
// mutating call it receives.
type fakeBus struct {
	// properties holds per-object property snapshots, keyed by path and
	// interface name.
	properties map[dbus.ObjectPath]map[string]map[string]dbus.Variant

	// propErr fails property reads for the provided path.
	propErr map[dbus.ObjectPath]error

	// callErr fails method calls by method name.
	callErr map[string]error

	// setErr fails property writes by property name.
	setErr map[string]error

	// listReply holds the items backing a ListItems call.
	listReply []listedItem

	// managed holds the object tree backing a GetManagedObjects call.
	managed map[dbus.ObjectPath]map[string]map[string]dbus.Variant

	calls []recordedCall
	sets  []recordedSet
}

type recordedCall struct {
	path   dbus.ObjectPath
	method string
	args   []any
}

type recordedSet struct {
	path     dbus.ObjectPath
	property string
	value    any
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		properties: make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant),
		propErr:    make(map[dbus.ObjectPath]error),
		callErr:    make(map[string]error),
		setErr:     make(map[string]error),
	}
}

func (f *fakeBus) setObject(path dbus.ObjectPath, iface string, props map[string]dbus.Variant) {
	if f.properties[path] == nil {
		f.properties[path] = make(map[string]map[string]dbus.Variant)
	}
	f.properties[path][iface] = props
}

func (f *fakeBus) Call(_ string, path dbus.ObjectPath, method string, ret any, args ...any) error {
	f.calls = append(f.calls, recordedCall{path: path, method: method, args: args})

	if err := f.callErr[method]; err != nil {
		return err
	}

	if out, ok := ret.(*map[dbus.ObjectPath]map[string]map[string]dbus.Variant); ok {
		*out = f.managed

		return nil
	}

	if out, ok := ret.(*[]listedItem); ok {
		items := f.listReply

		if len(args) > 0 {
			if filter, ok := args[0].(map[string]any); ok {
				start, end := filter["Start"].(uint32), filter["End"].(uint32)
				if int(start) >= len(items) {
					items = nil
				} else {
					if int(end) >= len(items) {
						end = uint32(len(items) - 1)
					}
					items = items[start : end+1]
				}
			}
		}

		*out = items
	}

	return nil
}

func (f *fakeBus) GetProperty(_ string, path dbus.ObjectPath, iface, property string) (dbus.Variant, error) {
	if err := f.propErr[path]; err != nil {
		return dbus.Variant{}, err
	}

	props, ok := f.properties[path][iface]
	if !ok {
		return dbus.Variant{}, errors.New("no such object")
	}

	return props[property], nil
}

func (f *fakeBus) GetAllProperties(_ string, path dbus.ObjectPath, iface string) (map[string]dbus.Variant, error) {
	if err := f.propErr[path]; err != nil {
		return nil, err
	}

	props, ok := f.properties[path][iface]
	if !ok {
		return nil, errors.New("no such object")
	}

	return props, nil
}

func (f *fakeBus) SetProperty(_ string, path dbus.ObjectPath, _, property string, value any) error {
	if err := f.setErr[property]; err != nil {
		return err
	}

	f.sets = append(f.sets, recordedSet{path: path, property: property, value: value})

	return nil
}

// callsTo returns the recorded calls matching the provided method.
func (f *fakeBus) callsTo(method string) []recordedCall {
	var matched []recordedCall

	for _, call := range f.calls {
		if call.method == method {
			matched = append(matched, call)
		}
	}

	return matched
}

// recvEvent receives one event from ch or fails the test.
func recvEvent[T any](t *testing.T, ch chan T) T {
	t.Helper()

	select {
	case data := <-ch:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	var zero T
	return zero
}

// expectNoEvent fails the test when an event arrives on ch.
func expectNoEvent[T any](t *testing.T, ch chan T) {
	t.Helper()

	select {
	case data := <-ch:
		t.Fatalf("unexpected event: %+v", data)
	case <-time.After(200 * time.Millisecond):
	}
}
