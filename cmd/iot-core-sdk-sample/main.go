package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/diwise/iot-core-sdk/pkg/hub"
	"github.com/diwise/iot-core-sdk/pkg/iotlog"
	"github.com/diwise/iot-core-sdk/pkg/platform"
	"github.com/diwise/iot-core-sdk/pkg/properties"
	"github.com/diwise/iot-core-sdk/pkg/propbag"
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/sas"
	"github.com/diwise/iot-core-sdk/pkg/span"
	"github.com/diwise/iot-core-sdk/pkg/transport"
)

var hostname string
var deviceID string
var brokerURL string

func main() {
	flag.StringVar(&hostname, "hub", envOrDefault("IOT_HUB_HOSTNAME", "myiothub.azure-devices.net"), "IoT hub hostname")
	flag.StringVar(&deviceID, "device", envOrDefault("IOT_DEVICE_ID", "sample-device-01"), "device id")
	flag.StringVar(&brokerURL, "broker", envOrDefault("IOT_SAMPLE_BROKER_URL", ""), "AMQP broker URL for the transport bridge demo (left empty, the bridge step is skipped)")
	flag.Parse()

	logger := log.With().Str("service", "iot-core-sdk-sample").Logger()
	installLogBridge(logger)

	client, code := hub.NewClient(hostname, deviceID, &hub.Options{
		Components: []string{"thermostat", "humidifier"},
	})
	if code != result.Ok {
		logger.Fatal().Str("reason", code.String()).Msg("failed to construct hub client")
	}

	demoSAS(logger, client)
	demoTopics(logger, client)
	demoPropertiesIterator(logger, client)

	if brokerURL != "" {
		demoTransport(logger, client)
	} else {
		logger.Info().Msg("IOT_SAMPLE_BROKER_URL not set, skipping transport bridge demo")
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func installLogBridge(logger zerolog.Logger) {
	iotlog.SetListener(func(class iotlog.Classification, message string) {
		logger.Debug().Int("classification", int(class)).Msg(message)
	})
}

func demoSAS(logger zerolog.Logger, client *hub.Client) {
	var buf [256]byte
	tail, code := sas.GetDocument(span.FromString(client.Hostname()), span.FromString(client.DeviceID()), uint64(time.Now().Unix()+3600), span.Of(buf[:]))
	if code != result.Ok {
		logger.Error().Str("reason", code.String()).Msg("failed to build SAS document")
		return
	}
	logger.Info().Str("document", string(buf[:len(buf)-len(tail)])).Msg("SAS string-to-sign document")
}

func demoTopics(logger zerolog.Logger, client *hub.Client) {
	var buf [256]byte
	n, code := client.TelemetryPublishTopic(span.Of(buf[:]), nil)
	if code != result.Ok {
		logger.Error().Str("reason", code.String()).Msg("failed to build telemetry topic")
		return
	}
	logger.Info().Str("topic", string(buf[:n])).Msg("telemetry publish topic")

	requestID := span.FromString(uuid.NewString())
	var methodBuf [256]byte
	n, code = client.MethodResponsePublishTopic(span.Of(methodBuf[:]), 200, requestID)
	if code == result.Ok {
		logger.Info().Str("topic", string(methodBuf[:n])).Msg("method response topic")
	}
}

func demoPropertiesIterator(logger zerolog.Logger, client *hub.Client) {
	payload := `{"thermostat":{"__t":"c","target_temperature":21},"not_component":42,"$version":5}`

	version, code := properties.GetPropertiesVersion(span.FromString(payload), properties.DocumentDesiredPatch)
	if code != result.Ok {
		logger.Error().Str("reason", code.String()).Msg("failed to read properties version")
		return
	}
	logger.Info().Int32("version", version).Msg("desired properties version")

	it, code := properties.NewIterator(client, span.FromString(payload), properties.DocumentDesiredPatch, properties.WriteableFromCloud)
	if code != result.Ok {
		logger.Error().Str("reason", code.String()).Msg("failed to construct properties iterator")
		return
	}

	for {
		component, name, code := it.Next()
		if code == result.IoTEndOfProperties {
			break
		}
		if code != result.Ok {
			logger.Error().Str("reason", code.String()).Msg("properties iteration failed")
			return
		}

		if code := it.Reader().NextToken(); code != result.Ok {
			logger.Error().Str("reason", code.String()).Msg("failed to read property value")
			return
		}

		logger.Info().
			Str("component", string(component)).
			Str("property", string(name)).
			Str("kind", it.Reader().Token().Kind.String()).
			Msg("writeable property")
	}
}

func demoTransport(logger zerolog.Logger, client *hub.Client) {
	bridge, err := transport.Dial(brokerURL, "iot-core-sdk-sample", logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to dial broker, skipping transport demo")
		return
	}
	defer bridge.Close()

	bag, code := propbag.New(make(span.Span, 256), 0)
	if code != result.Ok {
		logger.Error().Str("reason", code.String()).Msg("failed to build property bag")
		return
	}
	if code := bag.Append(span.FromString("temperature"), span.FromString("21.5")); code != result.Ok {
		logger.Error().Str("reason", code.String()).Msg("failed to append property")
		return
	}

	var topicBuf [256]byte
	n, code := client.TelemetryPublishTopic(span.Of(topicBuf[:]), bag.Bytes())
	if code != result.Ok {
		logger.Error().Str("reason", code.String()).Msg("failed to build telemetry topic")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	routingKey := string(topicBuf[:n])
	if err := bridge.Publish(ctx, routingKey, []byte(`{"temperature":21.5}`)); err != nil {
		logger.Error().Err(err).Msg("failed to publish telemetry")
		return
	}
	logger.Info().Str("routing_key", routingKey).Msg("published telemetry via transport bridge")
}
