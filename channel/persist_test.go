package channel

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"

	"github.com/cbsinteractive/keyframes/db"
	"github.com/cbsinteractive/keyframes/keyframe"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestDocumentRoundTrip(t *testing.T) {
	c := newChannel(t, Opacity)
	for i, at := range []int{0, 5, 10} {
		k := keyframe.NewScalar(float64(at)/10, keyframe.Linear)
		k.SetColorLabel(uint8(i + 1))
		c.InsertKeyframe(at, k)
	}

	doc, err := c.Document()
	if err != nil {
		t.Fatal(err)
	}
	data, err := xml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	var decoded db.Channel
	if err := xml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding %s: %v", data, err)
	}

	loaded, err := FromDocument(&decoded)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int]struct{}{0: {}, 5: {}, 10: {}}
	if diff := cmp.Diff(want, loaded.AllKeyframeTimes()); diff != "" {
		t.Errorf("AllKeyframeTimes() mismatch (-want +got):\n%s", diff)
	}
	for i, at := range []int{0, 5, 10} {
		k := loaded.KeyframeAt(at).(*keyframe.Scalar)
		if k.ColorLabel() != uint8(i+1) || k.Mode() != keyframe.Linear || k.Value != float64(at)/10 {
			t.Errorf("keyframe at %d = %+v", at, k)
		}
	}
	if loaded.ID() != Opacity {
		t.Errorf("loaded ID = %v, want Opacity", loaded.ID())
	}
}

func TestDocumentOrder(t *testing.T) {
	c := newChannel(t, Raster)
	c.InsertKeyframe(9, keyframe.NewRaster(2))
	c.InsertKeyframe(3, keyframe.NewRaster(1))
	doc, err := c.Document()
	if err != nil {
		t.Fatal(err)
	}
	var times []int
	for _, k := range doc.Keyframes {
		times = append(times, k.Time)
	}
	if diff := cmp.Diff([]int{0, 3, 9}, times); diff != "" {
		t.Errorf("document times mismatch (-want +got):\n%s", diff)
	}
	if doc.Name != "content" || doc.Kind != keyframe.KindRaster {
		t.Errorf("document header = %q %q", doc.Name, doc.Kind)
	}
}

func TestLoadSanitizesNegativeTimes(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	c := newChannel(t, Raster, WithLogger(logger))
	err := c.Load(&db.Channel{
		Kind: keyframe.KindRaster,
		Keyframes: []db.Keyframe{
			{Time: 0, Payload: json.RawMessage(`{"frame":10}`)},
			{Time: 1, Payload: json.RawMessage(`{"frame":11}`)},
			{Time: 2, Payload: json.RawMessage(`{"frame":12}`)},
			{Time: -3, Payload: json.RawMessage(`{"frame":13}`)},
			{Time: 4, Payload: json.RawMessage(`{"frame":14}`)},
			{Time: 4, Payload: json.RawMessage(`{"frame":15}`)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	frames := map[int]int{}
	c.keys.Each(func(at int, k keyframe.Keyframe) bool {
		frames[at] = k.(*keyframe.Raster).Frame
		return true
	})
	// once a negative time was seen, later collisions probe upward too
	want := map[int]int{0: 10, 1: 11, 2: 12, 3: 13, 4: 14, 5: 15}
	if diff := cmp.Diff(want, frames); diff != "" {
		t.Errorf("loaded frames mismatch (-want +got):\n%s", diff)
	}
	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["time"] == -3 {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning for the negative time")
	}
}

func TestLoadWithoutBrokenTimesReplaces(t *testing.T) {
	c := newChannel(t, Raster)
	c.AddKeyframe(7)
	err := c.Load(&db.Channel{Keyframes: []db.Keyframe{
		{Time: 4, Payload: json.RawMessage(`{"frame":1}`)},
		{Time: 4, Payload: json.RawMessage(`{"frame":2}`)},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 4}, c.KeyframeTimes()); diff != "" {
		t.Errorf("times mismatch (-want +got):\n%s", diff)
	}
	if f := c.KeyframeAt(4).(*keyframe.Raster).Frame; f != 2 {
		t.Errorf("duplicate record should replace, got frame %d", f)
	}
}

func TestLoadSkipsMalformedRecords(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	c := newChannel(t, Opacity, WithLogger(logger))
	notified := false
	c.Subscribe(Funcs{OnAdded: func(*Channel, int) { notified = true }})

	err := c.Load(&db.Channel{Keyframes: []db.Keyframe{
		{Time: 2, ColorLabel: 5, Payload: json.RawMessage(`{"value":1}`)},
		{Time: 3, Payload: json.RawMessage(`{"value":"high"}`)},
		{Time: 4, Payload: json.RawMessage(`{"value":2,"interpolation":"spline"}`)},
	}, Skipped: 1})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 2}, c.KeyframeTimes()); diff != "" {
		t.Errorf("times mismatch (-want +got):\n%s", diff)
	}
	if c.KeyframeAt(2).ColorLabel() != 5 {
		t.Errorf("color label = %d, want 5", c.KeyframeAt(2).ColorLabel())
	}
	if notified {
		t.Error("Load fired notifications")
	}
	if n := len(hook.AllEntries()); n != 3 {
		t.Errorf("got %d log entries, want 3", n)
	}
}

func TestLoadKindMismatch(t *testing.T) {
	c := newChannel(t, Opacity)
	err := c.Load(&db.Channel{Kind: keyframe.KindRaster})
	if !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Load(raster doc into scalar channel): want ErrKindMismatch, got %v", err)
	}
}

func TestFromDocumentUnknownName(t *testing.T) {
	c, err := FromDocument(&db.Channel{Name: "custom_blur", Kind: keyframe.KindScalar})
	if err != nil {
		t.Fatal(err)
	}
	if c.ID().ID != "custom_blur" || c.KeyframeAt(0) == nil {
		t.Errorf("FromDocument built %+v", c.ID())
	}
}
