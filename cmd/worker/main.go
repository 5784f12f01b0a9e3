package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anonymizer/internal/app"
	"anonymizer/internal/config"
	"anonymizer/internal/logger"
	"anonymizer/internal/worker"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const queueCapacity = 64

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.NewLogger(cfg)

	clientID := "anonymizer-" + uuid.NewString()
	log.Info("Connecting to MQTT %s with client ID %s", cfg.MQTTBroker, clientID)

	// Assigned before Connect, read by the OnConnect handler.
	var w *worker.Worker

	opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(clientID)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(5 * time.Second)
	opts.SetConnectTimeout(30 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		log.Info("Connected to MQTT, subscribing to %s", cfg.MQTTRequestTopic)
		if token := c.Subscribe(cfg.MQTTRequestTopic, 1, w.OnMessage); token.Wait() && token.Error() != nil {
			log.Error("Subscribe failed: %v", token.Error())
		}
	})
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		log.Warning("MQTT connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	notifier := worker.NewMQTTNotifier(client, cfg.MQTTResponseTopic, log)

	application, err := app.NewApp(ctx, notifier)
	if err != nil {
		fatal(log, "Failed to initialize: %v", err)
	}
	defer application.Close()

	w = worker.NewWorker(application.Anonymizer(), queueCapacity, log)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		fatal(log, "Failed to connect to MQTT: %v", token.Error())
	}
	defer client.Disconnect(250)

	w.Run(ctx)
	log.Info("Interrupt signal received. Exiting...")
}

func fatal(l *logger.Logger, format string, v ...interface{}) {
	l.Error(format, v...)
	os.Exit(1)
}
