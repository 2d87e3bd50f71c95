// Command jmap-smoke exercises a live JMAP server end to end: session
// discovery, mailbox listing, and push streaming. It exists to smoke-test
// the client against real deployments without writing any data.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/beeper/jmap-go/pkg/jmap"
	"github.com/beeper/jmap-go/pkg/jmap/mail"
	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// Information to find out exactly which commit the binary was built from.
// These are filled at build time with the -X linker flag.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a YAML config file")
		profileName = flag.String("profile", "", "named profile to load from the profile store")
		profilePath = flag.String("profiles", "", "profile store path (default ~/.config/jmap-smoke/profiles.json)")
		saveProfile = flag.Bool("save-profile", false, "save the resolved host and credentials under --profile")
		host        = flag.String("host", "", "server hostname or explicit http(s) origin")
		username    = flag.String("username", "", "username for basic auth")
		password    = flag.String("password", "", "password for basic auth")
		token       = flag.String("token", "", "bearer token, overrides basic auth")
		logLevel    = flag.String("log-level", "", "log level: trace, debug, info, warn, error")
		types       = flag.String("types", "", "comma-separated type filter for watch, empty means all")
		useWS       = flag.Bool("ws", false, "watch over the websocket push channel instead of the event source")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <session|mailboxes|watch>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("jmap-smoke %s (%s, built %s)\n", Tag, Commit, BuildTime)
		return
	}

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jmap-smoke: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *profileName != "" {
		store, err := loadProfiles(resolveProfilePath(*profilePath))
		if err != nil {
			fmt.Fprintf(os.Stderr, "jmap-smoke: %v\n", err)
			os.Exit(1)
		}
		profile, ok := store.Profiles[*profileName]
		if !ok && !*saveProfile {
			fmt.Fprintf(os.Stderr, "jmap-smoke: no profile named %q\n", *profileName)
			os.Exit(1)
		}
		applyProfile(&cfg, profile)
	}
	applyFlags(&cfg, *host, *username, *password, *token, *logLevel)

	if cfg.Host == "" {
		fmt.Fprintln(os.Stderr, "jmap-smoke: a host is required (flag, config, or profile)")
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jmap-smoke: invalid log level %q\n", cfg.LogLevel)
		os.Exit(1)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if *saveProfile {
		if *profileName == "" {
			fmt.Fprintln(os.Stderr, "jmap-smoke: --save-profile needs --profile")
			os.Exit(1)
		}
		if err := persistProfile(resolveProfilePath(*profilePath), *profileName, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "jmap-smoke: failed to save profile: %v\n", err)
			os.Exit(1)
		}
		log.Info().Str("profile", *profileName).Msg("Saved profile")
	}

	client, err := jmap.NewClient(jmap.Config{
		Domain: cfg.Host,
		Credentials: jmap.Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
			Token:    cfg.Token,
		},
		RequestTimeout: cfg.RequestTimeout.Duration,
		MaxConcurrent:  cfg.MaxConcurrent,
		Logger:         &log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "jmap-smoke: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	action := flag.Arg(0)
	if action == "" {
		action = "session"
	}
	switch action {
	case "session":
		err = runSession(ctx, client)
	case "mailboxes":
		err = runMailboxes(ctx, client)
	case "watch":
		err = runWatch(ctx, client, log, *useWS, *types)
	default:
		fmt.Fprintf(os.Stderr, "jmap-smoke: unknown action %q\n", action)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "jmap-smoke: %v\n", err)
		os.Exit(1)
	}
}

// applyProfile overlays non-empty profile values onto the config.
func applyProfile(cfg *Config, p Profile) {
	if p.Host != "" {
		cfg.Host = p.Host
	}
	if p.Username != "" {
		cfg.Username = p.Username
	}
	if p.Password != "" {
		cfg.Password = p.Password
	}
	if p.Token != "" {
		cfg.Token = p.Token
	}
	if p.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout.Duration = p.RequestTimeout.Duration
	}
}

// applyFlags overlays explicit flag values onto the config. Flags win
// over both the config file and the profile.
func applyFlags(cfg *Config, host, username, password, token, logLevel string) {
	if host != "" {
		cfg.Host = host
	}
	if username != "" {
		cfg.Username = username
	}
	if password != "" {
		cfg.Password = password
	}
	if token != "" {
		cfg.Token = token
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

func persistProfile(path, name string, cfg Config) error {
	store, err := loadProfiles(path)
	if err != nil {
		return err
	}
	store.Profiles[name] = Profile{
		Host:           cfg.Host,
		Username:       cfg.Username,
		Password:       cfg.Password,
		Token:          cfg.Token,
		RequestTimeout: cfg.RequestTimeout.Seconds,
	}
	return saveProfiles(path, store)
}

func runSession(ctx context.Context, client *jmap.Client) error {
	session, err := client.Discover(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("username:     %s\n", session.Username)
	fmt.Printf("state:        %s\n", session.State)
	fmt.Printf("api url:      %s\n", session.APIURL)
	fmt.Printf("event source: %s\n", session.EventSourceURL)

	caps := make([]string, 0, len(session.Capabilities))
	for name := range session.Capabilities {
		caps = append(caps, name)
	}
	sort.Strings(caps)
	for _, name := range caps {
		fmt.Printf("capability:   %s\n", name)
	}
	if core, err := session.Core(); err == nil {
		fmt.Printf("limits:       %d concurrent, %d calls/request, %d objects/get\n",
			core.MaxConcurrentRequests, core.MaxCallsInRequest, core.MaxObjectsInGet)
	}

	ids := make([]string, 0, len(session.Accounts))
	for id := range session.Accounts {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		account := session.Accounts[wire.ID(id)]
		kind := "shared"
		if account.IsPersonal {
			kind = "personal"
		}
		fmt.Printf("account:      %s (%s, %s)\n", id, account.Name, kind)
	}
	return nil
}

func runMailboxes(ctx context.Context, client *jmap.Client) error {
	if _, err := client.Discover(ctx); err != nil {
		return err
	}
	res, err := mail.NewMailboxAPI(client, "").Get(ctx, jmap.GetArgs{})
	if err != nil {
		return err
	}
	boxes := res.List
	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].SortOrder != boxes[j].SortOrder {
			return boxes[i].SortOrder < boxes[j].SortOrder
		}
		return boxes[i].Name < boxes[j].Name
	})
	for _, box := range boxes {
		role := ""
		if box.Role != nil {
			role = " [" + *box.Role + "]"
		}
		fmt.Printf("%-40s %5d unread / %5d total%s\n", box.Name, box.UnreadEmails, box.TotalEmails, role)
	}
	fmt.Printf("%d mailboxes, state %s\n", len(boxes), res.State)
	return nil
}

func runWatch(ctx context.Context, client *jmap.Client, log zerolog.Logger, useWS bool, typesCSV string) error {
	if _, err := client.Discover(ctx); err != nil {
		return err
	}
	opts := jmap.SubscribeOptions{Ping: 30 * time.Second}
	if typesCSV != "" {
		opts.Types = strings.Split(typesCSV, ",")
	}
	handler := func(ev jmap.StateEvent) {
		if len(ev.Changed) == 0 {
			log.Debug().Str("type", ev.Type).Str("data", ev.Data).Msg("Stream message")
			return
		}
		stamp := time.Now().Format(time.TimeOnly)
		for accountID, changed := range ev.Changed {
			for typ, state := range changed {
				fmt.Printf("%s %s %s -> %s\n", stamp, accountID, typ, state)
			}
		}
	}

	var (
		sub *jmap.Subscription
		err error
	)
	if useWS {
		sub, err = client.SubscribeWebSocket(ctx, handler, opts)
	} else {
		sub, err = client.Subscribe(ctx, handler, opts)
	}
	if err != nil {
		return err
	}
	log.Info().Bool("websocket", useWS).Msg("Watching for state changes, interrupt to stop")
	<-sub.Done()
	if st := sub.State(); st == jmap.StateFailed {
		return fmt.Errorf("push stream failed")
	}
	return nil
}
