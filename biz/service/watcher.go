package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/axfleet/eventwatch/helper/factory"
	"github.com/axfleet/eventwatch/internal/axis"
	"github.com/axfleet/eventwatch/internal/configs"
	"github.com/axfleet/eventwatch/internal/logger"
	"github.com/axfleet/eventwatch/models/events"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
)

// EventWatchService owns the single camera subscription: it opens the
// stream, echoes raw lines, and prints detection blocks. All failures
// are reduced to console output; Watch never reports an error upward.
type EventWatchService struct {
	axisClient axis.Client
	camera     *configs.CameraConfigs
	forwarder  *DetectionForwarder
	stats      *StreamStats

	out io.Writer
}

func NewEventWatchService() *EventWatchService {
	globalConfigs := configs.Get()
	s := &EventWatchService{
		axisClient: factory.Axis(),
		camera:     &globalConfigs.Camera,
		stats:      newStreamStats(),
		out:        os.Stdout,
	}
	if globalConfigs.MqttStore.Enabled {
		s.forwarder = NewDetectionForwarder(&globalConfigs.MqttStore)
	}
	return s
}

func (s *EventWatchService) credentials() *axis.Credentials {
	return &axis.Credentials{
		Ip:       s.camera.Ip,
		Username: s.camera.Username,
		Password: s.camera.Password,
	}
}

// Watch runs the subscription loop until the context is cancelled,
// the camera closes the stream, or the transport fails. It does not
// retry and does not reconnect.
func (s *EventWatchService) Watch(ctx context.Context) error {
	s.preflight(ctx)

	fmt.Fprintf(s.out, "Subscribing to VideoAnalytics events on %s\n", s.camera.Ip)
	fmt.Fprintln(s.out, "Listening for events... (Press Ctrl+C to stop)")
	fmt.Fprintln(s.out, strings.Repeat("=", 60))

	stream, err := s.axisClient.
		Events(s.credentials()).
		Subscribe(ctx, &axis.SubscribeRequest{
			EventFilter: s.camera.EventFilter,
		})
	if err != nil {
		logger.SError("Watch: subscribe failed", zap.Error(err))
		fmt.Fprintf(s.out, "Error: %s\n", err)
		return nil
	}
	defer stream.Close()

	s.stats.StartReporter(time.Minute)
	s.consume(ctx, stream)
	return nil
}

func (s *EventWatchService) consume(ctx context.Context, stream *axis.EventStream) {
	for {
		line, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil {
				logger.SInfo("Watch: stopped by user")
				fmt.Fprintln(s.out, "Stopped by user")
				return
			}
			if errors.Is(err, io.EOF) {
				logger.SInfo("Watch: camera closed the stream")
				return
			}
			logger.SError("Watch: stream failed", zap.Error(err))
			fmt.Fprintf(s.out, "Error: %s\n", err)
			return
		}
		s.handleLine(line)
	}
}

func (s *EventWatchService) handleLine(line string) {
	if line == "" {
		return
	}
	s.stats.lines.Add(1)

	// Diagnostic echo of every non-empty line, data record or not.
	fmt.Fprintln(s.out, line)

	envelope, err := events.ParseLine(line)
	if err != nil {
		// Undecodable payloads are skipped, the stream keeps going.
		s.stats.decodeFailures.Add(1)
		logger.SDebug("handleLine: skipping undecodable payload", zap.Error(err))
		return
	}
	if envelope == nil {
		return
	}
	s.stats.envelopes.Add(1)

	if !envelope.IsObjectDetection() {
		return
	}
	detection := envelope.Detection()
	s.stats.detections.Add(1)
	s.printDetection(detection)

	if s.forwarder != nil {
		s.forwarder.Forward(detection)
	}
}

func (s *EventWatchService) printDetection(detection *events.ObjectDetection) {
	fmt.Fprintln(s.out, "OBJECT DETECTION EVENT")
	fmt.Fprintf(s.out, "   Time: %s\n", detection.Timestamp)
	fmt.Fprintf(s.out, "   Topic: %s\n", detection.Topic)
	fmt.Fprintf(s.out, "   Class: %s\n", detection.ObjectClass)
	fmt.Fprintf(s.out, "   Confidence: %s\n", detection.Confidence)
	fmt.Fprintf(s.out, "   BBox: %s\n", detection.BoundingBox)
	fmt.Fprintln(s.out, strings.Repeat("-", 60))
}

// preflight probes the camera once before subscribing so operators
// see a clear log line when credentials or the address are wrong.
// Failures are reported but never block the subscription attempt.
func (s *EventWatchService) preflight(ctx context.Context) {
	systemApi := s.axisClient.System(s.credentials())
	err := retry.Do(
		func() error {
			info, err := systemApi.DeviceInfo(ctx)
			if err != nil {
				return err
			}
			logger.SInfo("preflight: camera reachable",
				zap.String("model", info.Data.PropertyList.ProdFullName),
				zap.String("serial", info.Data.PropertyList.SerialNumber),
				zap.String("firmware", info.Data.PropertyList.Version))
			return nil
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		logger.SWarn("preflight: device info probe failed",
			zap.String("camera", s.camera.Ip),
			zap.Error(err))
	}
}

func (s *EventWatchService) Shutdown() {
	s.stats.Stop()
	if s.forwarder != nil {
		s.forwarder.Shutdown()
	}
}
