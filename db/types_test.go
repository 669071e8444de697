package db

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestChannelValidation(t *testing.T) {
	var tests = []struct {
		testCase string
		ch       Channel
		errMsg   string
	}{
		{
			"valid channel",
			Channel{ID: "abc", Name: "opacity"},
			"",
		},
		{
			"missing id",
			Channel{Name: "opacity"},
			"channel id is required",
		},
	}
	for _, test := range tests {
		err := test.ch.Validate()
		if err == nil {
			err = errors.New("")
		}
		if err.Error() != test.errMsg {
			t.Errorf("wrong error message\nWant %q\nGot  %q", test.errMsg, err.Error())
		}
	}
}

func TestXMLRoundTrip(t *testing.T) {
	in := Channel{
		ID:   "c1",
		Name: "opacity",
		Kind: "scalar",
		Keyframes: []Keyframe{
			{Time: 0, ColorLabel: 2, Payload: json.RawMessage(`{"value":1}`)},
			{Time: 5},
			{Time: 10, ColorLabel: 7, Payload: json.RawMessage(`{"value":0.5,"interpolation":"linear"}`)},
		},
	}
	data, err := xml.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	var out Channel
	if err := xml.Unmarshal(data, &out); err != nil {
		t.Fatalf("decoding %s: %v", data, err)
	}
	if diff := cmp.Diff(in, out, cmpopts.IgnoreFields(Channel{}, "XMLName")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalXMLWritesPayload(t *testing.T) {
	ch := &Channel{
		ID:        "c1",
		Name:      "opacity",
		Kind:      "scalar",
		Keyframes: []Keyframe{{Time: 0, ColorLabel: 2, Payload: json.RawMessage(`{"value":1}`)}},
	}
	data, err := xml.Marshal(ch)
	if err != nil {
		t.Fatal(err)
	}
	want := `<channel id="c1" name="opacity" kind="scalar"><keyframe time="0" color-label="2">{&#34;value&#34;:1}</keyframe></channel>`
	if got := string(data); got != want {
		t.Errorf("wrong document\nWant %s\nGot  %s", want, got)
	}
}

func TestUnmarshalXMLLenient(t *testing.T) {
	doc := `<channel name="content" kind="raster">
	<KEYFRAME time="0" color-label="3">{"frame":1}</KEYFRAME>
	<comment>ignored</comment>
	<keyframe time="x"/>
	<keyframe time="4" color-label="300"/>
	<keyframe time="8">
	</keyframe>
</channel>`
	var ch Channel
	if err := xml.Unmarshal([]byte(doc), &ch); err != nil {
		t.Fatal(err)
	}
	want := []Keyframe{
		{Time: 0, ColorLabel: 3, Payload: json.RawMessage(`{"frame":1}`)},
		{Time: 8},
	}
	if diff := cmp.Diff(want, ch.Keyframes); diff != "" {
		t.Errorf("keyframes mismatch (-want +got):\n%s", diff)
	}
	if ch.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", ch.Skipped)
	}
	if ch.Name != "content" || ch.Kind != "raster" {
		t.Errorf("attributes not decoded: %+v", ch)
	}
}

func TestChecksum(t *testing.T) {
	a := &Channel{ID: "c", Keyframes: []Keyframe{{Time: 0}, {Time: 3, ColorLabel: 1}}}
	b := &Channel{ID: "c", Keyframes: []Keyframe{{Time: 0}, {Time: 3, ColorLabel: 1}}, Skipped: 4}
	ha, err := a.Checksum()
	if err != nil {
		t.Fatal(err)
	}
	hb, _ := b.Checksum()
	if ha != hb {
		t.Errorf("checksum depends on ignored fields: %d != %d", ha, hb)
	}
	b.Keyframes[1].ColorLabel = 2
	if hb, _ = b.Checksum(); ha == hb {
		t.Error("checksum did not change with the color label")
	}
}
