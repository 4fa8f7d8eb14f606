//go:build unit

package content

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"go-brandsite-app/internal/logger"
	"go-brandsite-app/internal/store"
)

// mockBlobWriter records written blobs and can be forced to fail.
type mockBlobWriter struct {
	written     map[string][]byte
	errToReturn error
}

var _ BlobWriter = (*mockBlobWriter)(nil)

func (m *mockBlobWriter) WriteBlob(id store.Identity, filename string, data []byte) (string, error) {
	if m.errToReturn != nil {
		return "", m.errToReturn
	}
	if m.written == nil {
		m.written = make(map[string][]byte)
	}
	m.written[filename] = data
	return id.PublicMediaPath(filename), nil
}

// mockLogger counts entries by level so tests can assert what the rewriter
// reports.
type mockLogger struct {
	debugCount int
	warnCount  int
}

var _ logger.Logger = (*mockLogger)(nil)

func (m *mockLogger) Debug(msg string)                         { m.debugCount++ }
func (m *mockLogger) Info(msg string)                          {}
func (m *mockLogger) Warn(msg string)                          { m.warnCount++ }
func (m *mockLogger) Error(err error, msg string)              {}
func (m *mockLogger) Fatal(err error, msg string)              {}
func (m *mockLogger) With(map[string]interface{}) logger.Logger { return m }

// fixedNaming makes derived file names predictable in assertions.
func fixedNaming(id store.Identity, fieldPath, itemID, ext string) string {
	name := strings.ReplaceAll(fieldPath, ".", "_")
	if itemID != "" {
		name = itemID + "-" + name
	}
	return name + "." + ext
}

func pngURI(payload []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestMaterialize_RoundTripToDisk(t *testing.T) {
	root := t.TempDir()
	id := store.Identity{Area: store.AreaBrand, Brand: "fender"}
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x01, 0x02}

	r := NewRewriter(store.NewFSMediaStore(root), fixedNaming, logger.NewNop())
	doc := store.Document{"image": pngURI(payload)}

	out, err := r.Materialize(doc, id)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	got, ok := out["image"].(string)
	if !ok || strings.HasPrefix(got, "data:") {
		t.Fatalf("image field should be a path after materialize, got %#v", out["image"])
	}
	if got != "/brand/fender/media/image.png" {
		t.Errorf("unexpected public path %q", got)
	}

	onDisk, err := os.ReadFile(filepath.Join(root, "brand", "fender", "media", "image.png"))
	if err != nil {
		t.Fatalf("materialized file missing: %v", err)
	}
	if !bytes.Equal(onDisk, payload) {
		t.Error("file bytes do not equal the decoded payload")
	}
}

func TestMaterialize_Idempotent(t *testing.T) {
	id := store.Identity{Area: store.AreaBrand, Brand: "fender"}
	sink := &mockBlobWriter{}
	r := NewRewriter(sink, fixedNaming, logger.NewNop())

	doc := store.Document{
		"image": "/brand/fender/media/already.png",
		"items": []interface{}{
			map[string]interface{}{
				"id":    "n1",
				"type":  "video",
				"video": "/brand/fender/media/clip.mp4",
				"link":  "https://example.com",
			},
		},
	}

	out, err := r.Materialize(doc, id)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if !reflect.DeepEqual(out, doc) {
		t.Errorf("already-materialized document changed:\n got %#v\nwant %#v", out, doc)
	}
	if len(sink.written) != 0 {
		t.Errorf("no blobs should be written, got %d", len(sink.written))
	}
}

func TestMaterialize_PartialFailure(t *testing.T) {
	id := store.Identity{Area: store.AreaHome}
	sink := &mockBlobWriter{}
	r := NewRewriter(sink, fixedNaming, logger.NewNop())

	broken := "data:image/png;base64,!!!not-base64!!!"
	doc := store.Document{
		"sections": []interface{}{
			map[string]interface{}{"id": "s1", "image": pngURI([]byte("ok"))},
			map[string]interface{}{"id": "s2", "image": broken},
		},
	}

	out, err := r.Materialize(doc, id)
	if err != nil {
		t.Fatalf("a malformed field must not abort the save: %v", err)
	}

	sections := out["sections"].([]interface{})
	first := sections[0].(map[string]interface{})
	if !strings.HasPrefix(first["image"].(string), "/home/media/") {
		t.Errorf("valid field should be a path, got %v", first["image"])
	}
	second := sections[1].(map[string]interface{})
	if second["image"] != broken {
		t.Errorf("malformed field should be left unchanged, got %v", second["image"])
	}
	if len(sink.written) != 1 {
		t.Errorf("expected exactly one blob written, got %d", len(sink.written))
	}
}

func TestMaterialize_ReportsSkippedFields(t *testing.T) {
	id := store.Identity{Area: store.AreaBrand, Brand: "fender"}
	log := &mockLogger{}
	r := NewRewriter(&mockBlobWriter{}, fixedNaming, log)

	doc := store.Document{
		"image": "/brand/fender/media/already.png",
		"video": "data:video/mp4;base64,!!!broken!!!",
	}
	if _, err := r.Materialize(doc, id); err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	if log.debugCount != 1 {
		t.Errorf("expected one debug entry for the already-materialized field, got %d", log.debugCount)
	}
	if log.warnCount != 1 {
		t.Errorf("expected one warn entry for the undecodable field, got %d", log.warnCount)
	}
}

func TestMaterialize_WriteFailureAborts(t *testing.T) {
	id := store.Identity{Area: store.AreaBrand, Brand: "fender"}
	sink := &mockBlobWriter{errToReturn: errors.New("disk full")}
	r := NewRewriter(sink, fixedNaming, logger.NewNop())

	_, err := r.Materialize(store.Document{"image": pngURI([]byte("x"))}, id)
	if err == nil {
		t.Fatal("a blob write failure must surface as a save failure")
	}
}

func TestMaterialize_NestedAndTypedSrc(t *testing.T) {
	id := store.Identity{Area: store.AreaProduct, Brand: "boss", Slug: "ds-1"}
	sink := &mockBlobWriter{}
	r := NewRewriter(sink, fixedNaming, logger.NewNop())

	doc := store.Document{
		"modules": []interface{}{
			map[string]interface{}{
				"type": "image",
				"src":  pngURI([]byte("module media")),
			},
			map[string]interface{}{
				// No sibling type: src is not a media field here.
				"src": pngURI([]byte("untouched")),
			},
			map[string]interface{}{
				"config": map[string]interface{}{
					"gallery": []interface{}{
						map[string]interface{}{"id": 7, "image": pngURI([]byte("deep"))},
					},
				},
			},
		},
	}

	out, err := r.Materialize(doc, id)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	modules := out["modules"].([]interface{})
	typed := modules[0].(map[string]interface{})
	if !strings.HasPrefix(typed["src"].(string), "/product/boss/ds-1/media/") {
		t.Errorf("typed src should be materialized, got %v", typed["src"])
	}
	untyped := modules[1].(map[string]interface{})
	if !strings.HasPrefix(untyped["src"].(string), "data:") {
		t.Errorf("src without sibling type must stay untouched, got %v", untyped["src"])
	}

	deep := modules[2].(map[string]interface{})["config"].(map[string]interface{})["gallery"].([]interface{})[0].(map[string]interface{})
	if !strings.HasPrefix(deep["image"].(string), "/product/boss/ds-1/media/7-") {
		t.Errorf("nested item media should carry its numeric item id, got %v", deep["image"])
	}
}

func TestTimestampNaming(t *testing.T) {
	id := store.Identity{Area: store.AreaBlog}
	pattern := regexp.MustCompile(`^p9-\d{13}-[0-9a-f]{8}\.png$`)

	name := TimestampNaming(id, "posts.0.image", "p9", "png")
	if !pattern.MatchString(name) {
		t.Errorf("unexpected name shape %q", name)
	}

	// Two names derived back to back must differ via the random suffix.
	other := TimestampNaming(id, "posts.0.image", "p9", "png")
	if name == other {
		t.Errorf("consecutive names should differ, both were %q", name)
	}
}
