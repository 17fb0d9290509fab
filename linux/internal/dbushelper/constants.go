//go:build linux

package dbushelper

// The DBus specific bus and property names.
const (
	DbusGetPropertiesIface    = "org.freedesktop.DBus.Properties.Get"
	DbusGetAllPropertiesIface = "org.freedesktop.DBus.Properties.GetAll"
	DbusSetPropertiesIface    = "org.freedesktop.DBus.Properties.Set"
	DbusObjectManagerIface    = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"

	DbusSignalAddMatchIface          = "org.freedesktop.DBus.AddMatch"
	DbusSignalPropertyChangedIface   = "org.freedesktop.DBus.Properties.PropertiesChanged"
	DbusSignalInterfacesAddedIface   = "org.freedesktop.DBus.ObjectManager.InterfacesAdded"
	DbusSignalInterfacesRemovedIface = "org.freedesktop.DBus.ObjectManager.InterfacesRemoved"

	BluezBusName           = "org.bluez"
	BluezAdapterIface      = "org.bluez.Adapter1"
	BluezDeviceIface       = "org.bluez.Device1"
	BluezMediaControlIface = "org.bluez.MediaControl1"
	BluezMediaPlayerIface  = "org.bluez.MediaPlayer1"
	BluezMediaFolderIface  = "org.bluez.MediaFolder1"
	BluezMediaItemIface    = "org.bluez.MediaItem1"

	// BluezErrNotSupported is the error name a peer reports when it does
	// not implement the invoked operation.
	BluezErrNotSupported = "org.bluez.Error.NotSupported"

	// BluezErrAlreadyConnected is the error name a peer reports when the
	// target of the operation is already connected.
	BluezErrAlreadyConnected = "org.bluez.Error.AlreadyConnected"

	OfonoBusName        = "org.ofono"
	OfonoManagerIface   = "org.ofono.Manager"
	OfonoModemIface     = "org.ofono.Modem"
	OfonoHandsfreeIface = "org.ofono.Handsfree"

	OfonoSignalModemAdded      = "org.ofono.Manager.ModemAdded"
	OfonoSignalModemRemoved    = "org.ofono.Manager.ModemRemoved"
	OfonoSignalPropertyChanged = "org.ofono.Modem.PropertyChanged"

	// OfonoHfpMarker is the profile-specific marker segment that oFono
	// prepends to the Bluez device path of a hands-free modem.
	OfonoHfpMarker = "/hfp"
)
