//go:build linux

package linux

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/darkhz/avremote/api/errorkinds"
	dbh "github.com/darkhz/avremote/linux/internal/dbushelper"
	"github.com/godbus/dbus/v5"
	"github.com/puzpuzpuz/xsync/v3"
)

// Session mirrors the media players and telephony modems reachable
// through one local adapter. All property change batches, object
// lifecycle events and modem signals are delivered serially by a single
// dispatch goroutine.
type Session struct {
	conn *dbus.Conn
	bus  Bus

	adapterPath dbus.ObjectPath

	registries *xsync.MapOf[dbus.ObjectPath, *Registry]
	modems     *ModemWatcher

	signals chan *dbus.Signal
}

// NewSession returns an unstarted session.
func NewSession() *Session {
	return &Session{
		registries: xsync.NewMapOf[dbus.ObjectPath, *Registry](),
	}
}

// Start connects to the system bus, primes the object caches for the
// provided adapter (for example "hci0") and begins dispatching events.
// When watchHandsfree is set, telephony modems scoped to the adapter are
// watched as well.
func (s *Session) Start(adapter string, watchHandsfree bool) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return fault.Wrap(errors.Join(errorkinds.ErrSessionStart, err),
			fctx.With(context.Background(), "error_at", "start-systembus"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot initialize system DBus"),
		)
	}

	s.conn = conn
	s.bus = &systemBus{conn: conn}
	s.adapterPath = dbus.ObjectPath("/org/bluez/" + adapter)

	props, err := s.bus.GetAllProperties(dbh.BluezBusName, s.adapterPath, dbh.BluezAdapterIface)
	if err != nil {
		return fault.Wrap(errorkinds.ErrAdapterNotFound,
			fctx.With(context.Background(),
				"error_at", "start-adapter",
				"adapter", adapter,
			),
			ftag.With(ftag.NotFound),
			fmsg.With("Adapter does not exist"),
		)
	}
	if address, ok := props["Address"].Value().(string); ok {
		dbh.PathConverter.AddDbusPath(dbh.DbusPathAdapter, s.adapterPath, address)
	}

	if err := s.refresh(); err != nil {
		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "refresh-objects"),
			ftag.With(ftag.Internal),
			fmsg.With("Error while initializing object cache"),
		)
	}

	if watchHandsfree {
		s.modems = NewModemWatcher(s.bus, s.adapterPath)
		if err := s.modems.Start(); err != nil {
			// oFono may not be running; hands-free status stays off.
			dbh.PublishError(err, "Telephony modems are not available",
				"error_at", "start-telephony",
			)
		}
	}

	go s.watch()

	return nil
}

// Stop stops dispatching events and closes the bus connection.
func (s *Session) Stop() error {
	if s.signals != nil {
		s.conn.RemoveSignal(s.signals)
	}

	if err := s.conn.Close(); err != nil {
		return fault.Wrap(errorkinds.ErrSessionStop,
			fctx.With(context.Background(), "error_at", "stop-systembus"),
			ftag.With(ftag.Internal),
			fmsg.With("Error while closing system bus"),
		)
	}

	return nil
}

// Registry returns the player registry of the device with the provided
// Bluetooth address.
func (s *Session) Registry(address string) (*Registry, error) {
	var registry *Registry

	s.registries.Range(func(_ dbus.ObjectPath, r *Registry) bool {
		if r.Address() == address {
			registry = r

			return false
		}

		return true
	})

	if registry == nil {
		return nil, fault.Wrap(errorkinds.ErrDeviceNotFound,
			fctx.With(context.Background(),
				"error_at", "session-registry",
				"address", address,
			),
			ftag.With(ftag.NotFound),
			fmsg.With("No media session exists for this device"),
		)
	}

	return registry, nil
}

// Registries returns the player registries of all mirrored devices.
func (s *Session) Registries() []*Registry {
	registries := make([]*Registry, 0, s.registries.Size())

	s.registries.Range(func(_ dbus.ObjectPath, r *Registry) bool {
		registries = append(registries, r)

		return true
	})

	return registries
}

// refresh primes the registries with the player objects that are already
// present on the bus. Priming fills caches without notifying.
func (s *Session) refresh() error {
	objects := make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant)
	if err := s.bus.Call(dbh.BluezBusName, "/", dbh.DbusObjectManagerIface, &objects); err != nil {
		return err
	}

	for objectPath, object := range objects {
		props, ok := object[dbh.BluezDeviceIface]
		if !ok || !s.underAdapter(objectPath) {
			continue
		}

		if address, ok := props["Address"].Value().(string); ok {
			dbh.PathConverter.AddDbusPath(dbh.DbusPathDevice, objectPath, address)
		}
	}

	for objectPath, object := range objects {
		props, ok := object[dbh.BluezMediaPlayerIface]
		if !ok {
			continue
		}

		devicePath := dbus.ObjectPath(path.Dir(string(objectPath)))
		if !s.underAdapter(devicePath) {
			continue
		}

		_, browsable := object[dbh.BluezMediaFolderIface]
		s.registry(devicePath, true).AddPlayer(objectPath, props, browsable)
	}

	for objectPath, object := range objects {
		props, ok := object[dbh.BluezMediaControlIface]
		if !ok || !s.underAdapter(objectPath) {
			continue
		}

		// A control endpoint may exist before any player does.
		registry := s.registry(objectPath, true)

		if connected, ok := props["Connected"].Value().(bool); ok {
			registry.devCache.Seed(map[string]any{"Connected": connected})
		}
		if playerPath, ok := props["Player"].Value().(dbus.ObjectPath); ok {
			registry.primeAddressed(playerPath)
		}
	}

	return nil
}

// watch registers signal matches and drives the dispatch loop.
func (s *Session) watch() {
	for _, match := range []string{
		"type='signal', sender='" + dbh.BluezBusName + "'",
		"type='signal', sender='" + dbh.OfonoBusName + "'",
	} {
		s.conn.BusObject().Call(dbh.DbusSignalAddMatchIface, 0, match)
	}

	s.signals = make(chan *dbus.Signal, 10)
	s.conn.Signal(s.signals)

	for signal := range s.signals {
		s.parseSignalData(signal)
	}
}

// parseSignalData parses one bus signal and routes it to the owning
// registry or the modem watcher.
//
//gocyclo:ignore
func (s *Session) parseSignalData(signal *dbus.Signal) {
	switch signal.Name {
	case dbh.DbusSignalPropertyChangedIface:
		if len(signal.Body) < 2 {
			return
		}

		interfaceName, ok := signal.Body[0].(string)
		if !ok {
			return
		}

		propertyMap, ok := signal.Body[1].(map[string]dbus.Variant)
		if !ok {
			return
		}

		switch interfaceName {
		case dbh.BluezMediaPlayerIface:
			devicePath := dbus.ObjectPath(path.Dir(string(signal.Path)))

			if registry, ok := s.registries.Load(devicePath); ok {
				registry.UpdateProperties(signal.Path, propertyMap)
			}

		case dbh.BluezMediaFolderIface:
			devicePath := dbus.ObjectPath(path.Dir(string(signal.Path)))

			if registry, ok := s.registries.Load(devicePath); ok {
				registry.UpdateFolderProperties(signal.Path, propertyMap)
			}

		case dbh.BluezMediaControlIface:
			// The control endpoint usually connects before any player
			// object appears; the registry is created here so the
			// connection status is not lost.
			if s.underAdapter(signal.Path) {
				s.registry(signal.Path, true).UpdateControlProperties(propertyMap)
			}
		}

	case dbh.DbusSignalInterfacesAddedIface:
		if len(signal.Body) < 2 {
			return
		}

		objectPath, ok := signal.Body[0].(dbus.ObjectPath)
		if !ok {
			return
		}

		nestedPropertyMap, ok := signal.Body[1].(map[string]map[string]dbus.Variant)
		if !ok {
			return
		}

		if props, ok := nestedPropertyMap[dbh.BluezDeviceIface]; ok && s.underAdapter(objectPath) {
			if address, ok := props["Address"].Value().(string); ok {
				dbh.PathConverter.AddDbusPath(dbh.DbusPathDevice, objectPath, address)
			}
		}

		if props, ok := nestedPropertyMap[dbh.BluezMediaPlayerIface]; ok {
			devicePath := dbus.ObjectPath(path.Dir(string(objectPath)))
			if !s.underAdapter(devicePath) {
				return
			}

			_, browsable := nestedPropertyMap[dbh.BluezMediaFolderIface]
			s.registry(devicePath, true).AddPlayer(objectPath, props, browsable)

			return
		}

		if _, ok := nestedPropertyMap[dbh.BluezMediaFolderIface]; ok {
			devicePath := dbus.ObjectPath(path.Dir(string(objectPath)))

			if registry, ok := s.registries.Load(devicePath); ok {
				registry.AttachBrowsing(objectPath)
			}
		}

	case dbh.DbusSignalInterfacesRemovedIface:
		if len(signal.Body) < 2 {
			return
		}

		objectPath, ok := signal.Body[0].(dbus.ObjectPath)
		if !ok {
			return
		}

		ifaceNames, ok := signal.Body[1].([]string)
		if !ok {
			return
		}

		devicePath := dbus.ObjectPath(path.Dir(string(objectPath)))

		for _, ifaceName := range ifaceNames {
			switch ifaceName {
			case dbh.BluezMediaFolderIface:
				if registry, ok := s.registries.Load(devicePath); ok {
					registry.DetachBrowsing(objectPath)
				}

			case dbh.BluezMediaPlayerIface:
				if registry, ok := s.registries.Load(devicePath); ok {
					registry.RemovePlayer(objectPath)
				}

			case dbh.BluezDeviceIface:
				dbh.PathConverter.RemoveDbusPath(dbh.DbusPathDevice, objectPath)
				s.registries.Delete(objectPath)
			}
		}

	case dbh.OfonoSignalModemAdded:
		if s.modems == nil || len(signal.Body) < 2 {
			return
		}

		modemPath, ok := signal.Body[0].(dbus.ObjectPath)
		if !ok {
			return
		}

		props, ok := signal.Body[1].(map[string]dbus.Variant)
		if !ok {
			return
		}

		s.modems.AddModem(modemPath, props)

	case dbh.OfonoSignalModemRemoved:
		if s.modems == nil || len(signal.Body) < 1 {
			return
		}

		if modemPath, ok := signal.Body[0].(dbus.ObjectPath); ok {
			s.modems.RemoveModem(modemPath)
		}

	case dbh.OfonoSignalPropertyChanged:
		if s.modems == nil || len(signal.Body) < 1 {
			return
		}

		name, ok := signal.Body[0].(string)
		if !ok {
			return
		}

		// A signal without an inline value forces a property re-read;
		// a modem that no longer answers is treated as removed.
		if len(signal.Body) < 2 {
			s.modems.Refresh(signal.Path)

			return
		}

		variant, ok := signal.Body[1].(dbus.Variant)
		if !ok {
			s.modems.Refresh(signal.Path)

			return
		}

		s.modems.UpdateProperty(signal.Path, name, variant.Value())
	}
}

// registry returns the registry of the device at the provided path,
// creating it when requested.
func (s *Session) registry(devicePath dbus.ObjectPath, create bool) *Registry {
	if registry, ok := s.registries.Load(devicePath); ok {
		return registry
	}
	if !create {
		return nil
	}

	registry, _ := s.registries.LoadOrStore(devicePath, NewRegistry(s.bus, devicePath))

	return registry
}

// underAdapter reports whether the object path belongs to the session's
// adapter sub-tree.
func (s *Session) underAdapter(objectPath dbus.ObjectPath) bool {
	return strings.HasPrefix(string(objectPath), string(s.adapterPath)+"/")
}
