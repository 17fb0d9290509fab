package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/darkhz/avremote/api/avrcp"
	"github.com/darkhz/avremote/config"
	"github.com/darkhz/avremote/linux"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v2"
)

// These values are set at compile-time.
var (
	Version  = ""
	Revision = ""
)

// Run runs the commandline application.
func Run() error {
	return newApp().Run(os.Args)
}

// newApp returns a new commandline application.
func newApp() *cli.App {
	cli.VersionPrinter = func(cCtx *cli.Context) {
		fmt.Fprintf(cCtx.App.Writer, "%s (%s)\n", Version, Revision)
	}

	return &cli.App{
		Name:                   "avremote",
		Usage:                  "AVRCP media session monitor.",
		Version:                Version + " (" + Revision + ")",
		Description:            "A remote media session mirror and browser for the terminal.",
		Copyright:              "(c) avremote.",
		Compiled:               time.Now(),
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Suggest:                true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "adapter",
				Aliases: []string{"a"},
				EnvVars: []string{"AVREMOTE_ADAPTER"},
				Usage:   "Specify an adapter to use. (For example, hci0)",
			},
			&cli.StringFlag{
				Name:    "device",
				Aliases: []string{"d"},
				EnvVars: []string{"AVREMOTE_DEVICE"},
				Usage:   "Specify a device address to target. (For example, 'AA:BB:CC:DD:EE:FF')",
			},
			&cli.BoolFlag{
				Name:    "watch-handsfree",
				Aliases: []string{"f"},
				EnvVars: []string{"AVREMOTE_WATCH_HANDSFREE"},
				Usage:   "Watch the hands-free connection status of telephony modems.",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"n"},
				EnvVars: []string{"AVREMOTE_NO_COLOR"},
				Usage:   "Do not colorize the monitor output.",
			},
			&cli.BoolFlag{
				Name:    "list-players",
				Aliases: []string{"l"},
				Usage:   "List the media players of the mirrored devices.",
			},
			&cli.StringFlag{
				Name:    "send-key",
				Aliases: []string{"k"},
				Usage:   "Send a media control key to the target device. (One of play, stop, pause, next, previous, rewind, fastforward)",
			},
		},
		Action: func(cliCtx *cli.Context) error {
			// required for koanf to merge all global flags under the root namespace.
			cliCtx.Command.Name = "global"

			k, cfg := koanf.New("."), config.NewConfig()
			if err := cfg.Load(k, cliCtx); err != nil {
				return err
			}
			if err := cfg.ValidateValues(); err != nil {
				return err
			}

			s := linux.NewSession()
			if err := s.Start(cfg.Values.Adapter, cfg.Values.WatchHandsfree); err != nil {
				return err
			}
			defer s.Stop()

			if cliCtx.Bool("list-players") {
				return listPlayers(s)
			}

			if key := cliCtx.String("send-key"); key != "" {
				return sendKey(s, cfg, key)
			}

			return monitor(s, cfg)
		},
		ExitErrHandler: func(_ *cli.Context, err error) {
			if err == nil {
				return
			}

			printError(err)
		},
	}
}

// listPlayers prints the media players of all mirrored devices.
func listPlayers(s *linux.Session) error {
	registries := s.Registries()
	if len(registries) == 0 {
		printWarn("no media sessions are active")

		return nil
	}

	for _, registry := range registries {
		fmt.Println(registry.Address() + ":")
		for _, player := range registry.Players() {
			printPlayer(player)
		}
	}

	return nil
}

// sendKey sends a media control key to the target device.
func sendKey(s *linux.Session, cfg *config.Config, key string) error {
	code, ok := avrcp.ParseKeyCode(key)
	if !ok {
		return fmt.Errorf("%s is not a valid media control key", key)
	}

	registry, err := targetRegistry(s, cfg)
	if err != nil {
		return err
	}

	return registry.SendPassThrough(code, avrcp.KeyPressed)
}

// targetRegistry selects the registry of the configured device, or the
// sole mirrored device when none is configured.
func targetRegistry(s *linux.Session, cfg *config.Config) (*linux.Registry, error) {
	if cfg.Values.Device != "" {
		return s.Registry(cfg.Values.Device)
	}

	registries := s.Registries()
	if len(registries) != 1 {
		return nil, fmt.Errorf("specify a device address with --device")
	}

	return registries[0], nil
}
