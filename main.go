package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/matt-g-everett/animtx/animation"
	"github.com/matt-g-everett/animtx/api"
	"github.com/matt-g-everett/animtx/stream"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Scheduler  *animation.Scheduler
	Registry   *prometheus.Registry
	Strip      *stream.Strip
	Controller *stream.Controller
	Server     *api.Server
}

func newApp(config stream.Config) (*app, error) {
	a := new(app)
	a.Config = config

	a.Scheduler = animation.Default()
	if err := a.Scheduler.SetFramerate(config.Scheduler.Framerate); err != nil {
		return nil, err
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := a.Scheduler.Instrument(a.Registry, "default"); err != nil {
		return nil, err
	}

	palette, err := config.Colours()
	if err != nil {
		return nil, err
	}

	options := mqtt.NewClientOptions().
		AddBroker(config.Mqtt.URL).
		SetClientID(config.Mqtt.ClientID).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	var publisher stream.Publisher = stream.NewMQTTPublisher(a.Client, config.Mqtt.Topics.Stream, config.Mqtt.QoS)
	if config.Mqtt.MaxFps > 0 {
		publisher = stream.Throttle(publisher, config.Mqtt.MaxFps)
	}
	a.Strip = stream.NewStrip(config.Strip.Pixels, publisher,
		animation.WithDuration(config.Duration()),
		animation.WithInterpolator(config.Interpolator()),
		animation.WithScheduler(a.Scheduler))
	a.Controller = stream.NewController(a.Strip, palette, config.Cycle(), config.Transition())
	a.Server = api.NewServer(a.Strip, a.Controller, a.Scheduler, a.Registry, config.API.Static)

	return a, nil
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Server.Run(ctx, a.Config.API.Listen)
	})
	g.Go(func() error {
		return a.Controller.Run(ctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	config, err := stream.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Streaming %d pixels to %s on %s at %d fps",
		config.Strip.Pixels, config.Mqtt.Topics.Stream, config.Mqtt.URL, config.Scheduler.Framerate)

	a, err := newApp(config)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("Stopped")
}
