package service

import (
	"bytes"
	"strings"
	"testing"
)

func newTestService(buf *bytes.Buffer) *EventWatchService {
	return &EventWatchService{
		out:   buf,
		stats: newStreamStats(),
	}
}

func TestHandleLine_EmptyLineProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	s := newTestService(&buf)

	s.handleLine("")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestHandleLine_NonDataLineIsEchoedOnly(t *testing.T) {
	var buf bytes.Buffer
	s := newTestService(&buf)

	s.handleLine("retry: 3000")

	if got, want := buf.String(), "retry: 3000\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if s.stats.envelopes.Load() != 0 {
		t.Error("non-data lines must not be parsed as envelopes")
	}
}

func TestHandleLine_MalformedJSONIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	s := newTestService(&buf)

	line := "data: {not json"
	s.handleLine(line)

	if got, want := buf.String(), line+"\n"; got != want {
		t.Errorf("output = %q, want echo only %q", got, want)
	}
	if s.stats.decodeFailures.Load() != 1 {
		t.Errorf("decodeFailures = %d, want 1", s.stats.decodeFailures.Load())
	}
}

func TestHandleLine_NonDetectionTopicHasNoBlock(t *testing.T) {
	var buf bytes.Buffer
	s := newTestService(&buf)

	s.handleLine(`data: {"topic":"tns1:VideoAnalytics/MotionDetection","data":{}}`)

	if strings.Contains(buf.String(), "OBJECT DETECTION EVENT") {
		t.Errorf("unexpected detection block in output:\n%s", buf.String())
	}
	if s.stats.envelopes.Load() != 1 {
		t.Error("valid envelope should still be counted")
	}
	if s.stats.detections.Load() != 0 {
		t.Error("no detection should be counted")
	}
}

func TestHandleLine_DetectionBlock(t *testing.T) {
	var buf bytes.Buffer
	s := newTestService(&buf)

	line := `data: {"topic":"tns1:VideoAnalytics/ObjectDetected","data":{"ObjectClass":"person","Confidence":"87"},"@timestamp":"12:00:00"}`
	s.handleLine(line)

	out := buf.String()
	if !strings.HasPrefix(out, line+"\n") {
		t.Errorf("raw line must be echoed first:\n%s", out)
	}
	for _, want := range []string{
		"OBJECT DETECTION EVENT",
		"Time: 12:00:00",
		"Topic: tns1:VideoAnalytics/ObjectDetected",
		"Class: person",
		"Confidence: 87",
		"BBox: N/A",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if s.stats.detections.Load() != 1 {
		t.Errorf("detections = %d, want 1", s.stats.detections.Load())
	}
}

func TestHandleLine_BoundingBoxLiteralValue(t *testing.T) {
	var buf bytes.Buffer
	s := newTestService(&buf)

	s.handleLine(`data: {"topic":"tns1:VideoAnalytics/ObjectDetected","data":{"ObjectClass":"car","Confidence":"55","BoundingBox":"10,20,30,40"}}`)

	if !strings.Contains(buf.String(), "BBox: 10,20,30,40") {
		t.Errorf("BoundingBox literal missing:\n%s", buf.String())
	}
}
