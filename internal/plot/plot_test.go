package plot

import (
	"context"
	"errors"
	"testing"

	"github.com/sweeney/sensor-plot/internal/command"
	"github.com/sweeney/sensor-plot/internal/logic"
	"github.com/sweeney/sensor-plot/internal/render"
)

func TestRunEmptySendsOneNotification(t *testing.T) {
	pub := command.NewFakePublisher()
	p := &Pipeline{Publisher: pub}

	img, sum, err := p.Run(context.Background(), nil, 59)
	if !errors.Is(err, logic.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if img != nil {
		t.Error("expected no image")
	}
	if sum.Pin != 59 || sum.Points != 0 {
		t.Errorf("summary: got %+v", sum)
	}

	if len(pub.Commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(pub.Commands))
	}
	want := `{"kind":"send_message","args":{"message":"[Plot sensor data] No data available for pin 59.","message_type":"error"}}`
	if string(pub.Payloads[0]) != want {
		t.Errorf("payload:\n got: %s\nwant: %s", pub.Payloads[0], want)
	}
}

func TestRunEmptyCustomTool(t *testing.T) {
	pub := command.NewFakePublisher()
	p := &Pipeline{Publisher: pub, Tool: "Chart"}

	p.Run(context.Background(), []logic.Reading{}, 13)

	if len(pub.Commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(pub.Commands))
	}
	if msg := pub.Commands[0].Args["message"]; msg != "[Chart] No data available for pin 13." {
		t.Errorf("message: got %v", msg)
	}
}

func TestRunEmptyNotifyFailureStillReportsEmpty(t *testing.T) {
	pub := command.NewFakePublisher()
	pub.SendError = errors.New("offline")
	p := &Pipeline{Publisher: pub}

	if _, _, err := p.Run(context.Background(), nil, 59); !errors.Is(err, logic.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestRunEmptyWithoutPublisher(t *testing.T) {
	p := &Pipeline{}
	if _, _, err := p.Run(context.Background(), nil, 59); !errors.Is(err, logic.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestRunRendersWithoutNotifying(t *testing.T) {
	pub := command.NewFakePublisher()
	p := &Pipeline{Publisher: pub}

	readings := []logic.Reading{
		{Time: 1000, Value: 1023},
		{Time: 1120, Value: 500},
		{Time: 1240, Value: 0},
	}
	img, sum, err := p.Run(context.Background(), readings, 59)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.Commands) != 0 {
		t.Errorf("expected no commands, got %d", len(pub.Commands))
	}
	if b := img.Bounds(); b.Dx() != render.FrameWidth || b.Dy() != render.FrameHeight {
		t.Errorf("bounds: got %v", b)
	}

	want := Summary{Pin: 59, Mode: logic.ModeRanged, Readings: 3, Points: 3, MostRecent: 1200}
	if sum != want {
		t.Errorf("summary: got %+v, want %+v", sum, want)
	}
}

func TestRunCountsDropped(t *testing.T) {
	readings := make([]logic.Reading, 0, 800)
	for i := 0; i < 800; i++ {
		readings = append(readings, logic.Reading{Time: float64(i) * logic.TimeScale, Value: 100})
	}

	p := &Pipeline{}
	_, sum, err := p.Run(context.Background(), readings, 13)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Points != logic.Horizon {
		t.Errorf("points: got %d, want %d", sum.Points, logic.Horizon)
	}
	if sum.Dropped != 800-logic.Horizon {
		t.Errorf("dropped: got %d", sum.Dropped)
	}
	if sum.Mode != logic.ModePlain {
		t.Errorf("mode: got %v", sum.Mode)
	}
}

func TestRunUsesRenderer(t *testing.T) {
	readings := []logic.Reading{{Time: 0, Value: 10}}

	custom, _, err := (&Pipeline{Renderer: &render.Renderer{}}).Run(context.Background(), readings, 59)
	if err != nil {
		t.Fatal(err)
	}
	standard, _, _ := (&Pipeline{}).Run(context.Background(), readings, 59)

	if string(custom.Pix) == string(standard.Pix) {
		t.Error("expected a renderer without time labels to draw a different frame")
	}
}
