package client

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

const testServers = `{"servers":[
	{"Server":{"Id":"1","Name":"edge","Hostname":"a"}},
	{"Server":{"Id":"2","Name":"core","Hostname":""}}
]}`

const testMonitors = `{"monitors":[
	{"Monitor":{"Id":"7","Name":"Garage","ServerId":"2","Enabled":"1","Sequence":"3","Colours":"4"}},
	{"Monitor":{"Id":"5","Name":"Porch","ServerId":"2","Enabled":"1","Sequence":"1","Colours":"4"}},
	{"Monitor":{"Id":"9","Name":"Attic","ServerId":"2","Enabled":"0","Sequence":"0","Colours":"4"}},
	{"Monitor":{"Id":6,"Name":"Yard","ServerId":1,"Enabled":1,"Sequence":2,"Colours":4}}
]}`

func TestCamerasSortedWithSharedAuthKey(t *testing.T) {
	f := newFakeZM(t, "token")
	f.servers = testServers
	f.monitors = testMonitors
	c := f.client(t)
	c.SetConnectionKey("424242")

	cameras, err := c.Cameras(context.Background())
	if err != nil {
		t.Fatalf("Cameras() error: %v", err)
	}

	if len(cameras) != 3 {
		t.Fatalf("expected 3 enabled cameras, got %d", len(cameras))
	}
	wantIDs := []int{5, 6, 7}
	for i, cam := range cameras {
		if cam.ID != wantIDs[i] || cam.Sequence != i+1 {
			t.Errorf("camera %d = %+v, want id %d sequence %d", i, cam, wantIDs[i], i+1)
		}
	}

	suffix := "&auth=abc123&connkey=424242"
	want := "http://" + f.host() + "/zm/cgi-bin/nph-zms?mode=jpeg&scale=100&maxfps=5&monitor=5" + suffix
	if cameras[0].ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", cameras[0].ImageURL, want)
	}
	if want := "http://a/zm/cgi-bin/nph-zms?mode=jpeg&scale=100&maxfps=5&monitor=6" + suffix; cameras[1].ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", cameras[1].ImageURL, want)
	}
	for _, cam := range cameras {
		if !strings.HasSuffix(cam.ImageURL, suffix) {
			t.Errorf("camera %d missing shared suffix: %s", cam.ID, cam.ImageURL)
		}
	}

	if got := f.watchCalls.Load(); got != 1 {
		t.Errorf("expected one auth key lookup, got %d", got)
	}
	if nid := f.lastWatchNID(); nid != "5" {
		t.Errorf("auth key looked up for monitor %s, want the lowest sequence 5", nid)
	}
}

func TestCamerasKeepOrderOfEqualSequences(t *testing.T) {
	f := newFakeZM(t, "token")
	f.monitors = `{"monitors":[
		{"Monitor":{"Id":"3","Name":"c","ServerId":"0","Enabled":"1","Sequence":"1"}},
		{"Monitor":{"Id":"1","Name":"a","ServerId":"0","Enabled":"1","Sequence":"1"}},
		{"Monitor":{"Id":"2","Name":"b","ServerId":"0","Enabled":"1","Sequence":"0"}}
	]}`
	c := f.client(t)

	cameras, err := c.Cameras(context.Background())
	if err != nil {
		t.Fatalf("Cameras() error: %v", err)
	}
	var names []string
	for _, cam := range cameras {
		names = append(names, cam.Name)
	}
	if got := strings.Join(names, ""); got != "bca" {
		t.Errorf("order = %q, want %q", got, "bca")
	}
}

func TestCamerasEmptySkipsAuthKey(t *testing.T) {
	f := newFakeZM(t, "token")
	f.monitors = `{"monitors":[{"Monitor":{"Id":"1","Name":"off","Enabled":"0","Sequence":"1"}}]}`
	c := f.client(t)

	cameras, err := c.Cameras(context.Background())
	if err != nil {
		t.Fatalf("Cameras() error: %v", err)
	}
	if cameras == nil || len(cameras) != 0 {
		t.Errorf("expected an empty list, got %v", cameras)
	}
	if got := f.watchCalls.Load(); got != 0 {
		t.Errorf("expected no auth key lookup, got %d", got)
	}
}

func TestCamerasToleratesMissingAuthKey(t *testing.T) {
	f := newFakeZM(t, "token")
	f.monitors = `{"monitors":[{"Monitor":{"Id":"1","Name":"a","Enabled":"1","Sequence":"1"}}]}`
	f.watch = "<html>no streams here</html>"
	c := f.client(t)
	c.SetConnectionKey("111111")

	cameras, err := c.Cameras(context.Background())
	if err != nil {
		t.Fatalf("Cameras() error: %v", err)
	}
	if !strings.HasSuffix(cameras[0].ImageURL, "&auth=&connkey=111111") {
		t.Errorf("unexpected URL %s", cameras[0].ImageURL)
	}
}

func TestMonitorsReturnsEnabledRawRecords(t *testing.T) {
	f := newFakeZM(t, "token")
	f.servers = testServers
	f.monitors = testMonitors
	c := f.client(t)

	monitors, err := c.Monitors(context.Background())
	if err != nil {
		t.Fatalf("Monitors() error: %v", err)
	}

	var ids []string
	for _, m := range monitors {
		ids = append(ids, m.ID.String())
	}
	if got := strings.Join(ids, ","); got != "7,5,6" {
		t.Errorf("ids = %s, want listing order 7,5,6", got)
	}

	out, err := json.Marshal(monitors[2])
	if err != nil {
		t.Fatal(err)
	}
	want := `{"Id":6,"Name":"Yard","ServerId":1,"Enabled":1,"Sequence":2,"Colours":4}`
	if !bytes.Equal(out, []byte(want)) {
		t.Errorf("raw record = %s, want %s", out, want)
	}

	if got := f.watchCalls.Load(); got != 0 {
		t.Errorf("Monitors() must not look up auth keys, got %d lookups", got)
	}
	if got := f.serversCalls.Load(); got != 1 {
		t.Errorf("expected one server listing, got %d", got)
	}
}

func TestConnectionKeyIsCached(t *testing.T) {
	f := newFakeZM(t, "token")
	c := f.client(t)

	first := c.ConnectionKey()
	if len(first) != 6 {
		t.Fatalf("expected a 6-digit key, got %q", first)
	}
	if again := c.ConnectionKey(); again != first {
		t.Errorf("key changed from %q to %q", first, again)
	}

	c.SetConnectionKey("000123")
	if got := c.ConnectionKey(); got != "000123" {
		t.Errorf("override ignored, got %q", got)
	}
}

func TestSnapshot(t *testing.T) {
	f := newFakeZM(t, "token")
	f.monitors = `{"monitors":[{"Monitor":{"Id":"1","Name":"a","ServerId":"0","Enabled":"1","Sequence":"1"}}]}`
	c := f.client(t)

	img, err := c.Snapshot(context.Background(), 1)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if !bytes.Equal(img, []byte{0xff, 0xd8, 0xff, 0xd9}) {
		t.Errorf("unexpected image bytes %x", img)
	}

	if _, err := c.Snapshot(context.Background(), 2); err == nil {
		t.Error("expected an error for an unknown monitor")
	}
}
