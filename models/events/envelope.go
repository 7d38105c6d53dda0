package events

import (
	"fmt"
	"strconv"
	"strings"

	custerror "github.com/axfleet/eventwatch/internal/error"

	"github.com/bytedance/sonic"
	"github.com/mitchellh/mapstructure"
)

const dataPrefix = "data:"

// ValueNotAvailable substitutes detection fields the camera did not send.
const ValueNotAvailable = "N/A"

const unknownField = "Unknown"

// EventEnvelope is the JSON wrapper the camera writes on data: lines.
// Every field is optional on the wire.
type EventEnvelope struct {
	Topic     string                 `json:"topic"`
	Data      map[string]interface{} `json:"data"`
	Timestamp string                 `json:"@timestamp"`
}

// ParseLine decodes one raw stream line. Lines without the data:
// prefix and data: lines with an empty payload are not event records
// and yield (nil, nil). A malformed JSON payload yields a typed
// decode error so callers can skip it without aborting the stream.
func ParseLine(line string) (*EventEnvelope, error) {
	if !strings.HasPrefix(line, dataPrefix) {
		return nil, nil
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if payload == "" {
		return nil, nil
	}

	var envelope EventEnvelope
	if err := sonic.UnmarshalString(payload, &envelope); err != nil {
		return nil, custerror.FormatInvalidArgument("ParseLine: malformed event payload: %s", err)
	}
	envelope.applyDefaults()
	return &envelope, nil
}

func (e *EventEnvelope) applyDefaults() {
	if e.Topic == "" {
		e.Topic = unknownField
	}
	if e.Data == nil {
		e.Data = map[string]interface{}{}
	}
	if e.Timestamp == "" {
		e.Timestamp = unknownField
	}
}

// IsObjectDetection reports whether the envelope topic names a
// VideoAnalytics object detection. This is a substring test on the
// raw topic, not a structured match on the topic hierarchy.
func (e *EventEnvelope) IsObjectDetection() bool {
	return strings.Contains(e.Topic, "VideoAnalytics") &&
		strings.Contains(e.Topic, "ObjectDetected")
}

type ObjectDetection struct {
	Timestamp   string `json:"timestamp"`
	Topic       string `json:"topic"`
	ObjectClass string `json:"objectClass"`
	Confidence  string `json:"confidence"`
	BoundingBox string `json:"boundingBox"`
}

type detectionFields struct {
	ObjectClass string `mapstructure:"ObjectClass"`
	Confidence  string `mapstructure:"Confidence"`
	Result      string `mapstructure:"Result"`
}

// ACAP detection apps pack the full result into a single Result
// string next to (or instead of) the flat keys.
type detectionResult struct {
	Class      string    `json:"class"`
	Confidence *float64  `json:"confidence"`
	Bbox       []float64 `json:"bbox"`
}

// Detection extracts the detection view of the envelope. Fields the
// camera did not send come back as "N/A".
func (e *EventEnvelope) Detection() *ObjectDetection {
	var fields detectionFields
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fields,
	})
	if err == nil {
		// Best effort, mismatched value types just leave the field empty.
		_ = decoder.Decode(e.Data)
	}

	detection := &ObjectDetection{
		Timestamp:   e.Timestamp,
		Topic:       e.Topic,
		ObjectClass: ValueNotAvailable,
		Confidence:  ValueNotAvailable,
		BoundingBox: ValueNotAvailable,
	}
	if fields.ObjectClass != "" {
		detection.ObjectClass = fields.ObjectClass
	}
	if fields.Confidence != "" {
		detection.Confidence = fields.Confidence
	}
	if bbox, ok := e.Data["BoundingBox"]; ok {
		detection.BoundingBox = formatFieldValue(bbox)
	}
	if fields.Result != "" {
		detection.fillFromResult(fields.Result)
	}
	return detection
}

func (d *ObjectDetection) fillFromResult(result string) {
	var parsed detectionResult
	if err := sonic.UnmarshalString(result, &parsed); err != nil {
		return
	}
	if d.ObjectClass == ValueNotAvailable && parsed.Class != "" {
		d.ObjectClass = parsed.Class
	}
	if d.Confidence == ValueNotAvailable && parsed.Confidence != nil {
		d.Confidence = strconv.FormatFloat(*parsed.Confidence, 'f', -1, 64)
	}
	if d.BoundingBox == ValueNotAvailable && len(parsed.Bbox) > 0 {
		d.BoundingBox = formatFieldValue(parsed.Bbox)
	}
}

// Key identifies a detection for duplicate suppression. Stateful
// camera events arrive twice (active and inactive) with the same
// topic and timestamp.
func (d *ObjectDetection) Key() string {
	return d.Topic + "|" + d.Timestamp + "|" + d.ObjectClass
}

func formatFieldValue(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
