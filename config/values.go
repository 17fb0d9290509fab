package config

import (
	"fmt"
	"strings"

	"github.com/darkhz/avremote/api/errorkinds"
)

// Values describes the possible configuration values that a user can
// modify and supply to the application.
type Values struct {
	Adapter        string `koanf:"adapter"`
	Device         string `koanf:"device"`
	WatchHandsfree bool   `koanf:"watch-handsfree"`
	NoColor        bool   `koanf:"no-color"`
}

// validateValues validates all configuration values.
func (v *Values) validateValues() error {
	for _, validate := range []func() error{
		v.validateAdapter,
		v.validateDevice,
	} {
		if err := validate(); err != nil {
			return err
		}
	}

	return nil
}

// validateAdapter checks the provided adapter name.
func (v *Values) validateAdapter() error {
	if v.Adapter == "" {
		v.Adapter = "hci0"

		return nil
	}

	if !strings.HasPrefix(v.Adapter, "hci") {
		return fmt.Errorf("%s is not a valid adapter name", v.Adapter)
	}

	return nil
}

// validateDevice checks the provided device address.
func (v *Values) validateDevice() error {
	if v.Device == "" {
		return nil
	}

	v.Device = strings.ToUpper(v.Device)

	octets := strings.Split(v.Device, ":")
	if len(octets) != 6 {
		return fmt.Errorf("%w: %s", errorkinds.ErrInvalidAddress, v.Device)
	}

	for _, octet := range octets {
		if len(octet) != 2 {
			return fmt.Errorf("%w: %s", errorkinds.ErrInvalidAddress, v.Device)
		}
	}

	return nil
}
