package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/monodeps/monodeps/internal/pathinfo"
	"github.com/monodeps/monodeps/internal/service"
)

func TestWriteServicesPlainVerboseShowsTrigger(t *testing.T) {
	svc := &service.Service{Dir: pathinfo.New("/repo/svc", "/repo/svc")}
	svc.SetTrigger(service.Trigger{Kind: service.TriggerFileChange, Source: "/repo/svc/a.go"})

	var buf bytes.Buffer
	WriteServicesPlain(&buf, []*service.Service{svc}, nil, true)

	if !strings.Contains(buf.String(), "[file-change]") {
		t.Fatalf("expected trigger suffix in verbose output, got %q", buf.String())
	}
}

func TestWriteServicesPlainNonVerboseOmitsTrigger(t *testing.T) {
	svc := &service.Service{Dir: pathinfo.New("/repo/svc", "/repo/svc")}
	svc.SetTrigger(service.Trigger{Kind: service.TriggerFileChange})

	var buf bytes.Buffer
	WriteServicesPlain(&buf, []*service.Service{svc}, nil, false)

	if strings.Contains(buf.String(), "[") {
		t.Fatalf("expected no trigger suffix without verbose, got %q", buf.String())
	}
}

func TestWriteServicesJSONIsTopLevelArray(t *testing.T) {
	svc := &service.Service{Dir: pathinfo.New("/repo/svc", "/repo/svc")}

	var buf bytes.Buffer
	if err := WriteServicesJSON(&buf, []*service.Service{svc}, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "[") {
		t.Fatalf("expected a top-level JSON array, got %q", buf.String())
	}
}

func TestWriteServicesYAMLSuppressesDocumentMarker(t *testing.T) {
	svc := &service.Service{Dir: pathinfo.New("/repo/svc", "/repo/svc")}

	var buf bytes.Buffer
	if err := WriteServicesYAML(&buf, []*service.Service{svc}, nil); err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(buf.String(), "---") {
		t.Fatalf("expected no leading document marker, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[") {
		t.Fatalf("expected a flow-sequence, got %q", buf.String())
	}
}

func TestWriteServicesRelativePath(t *testing.T) {
	origin := pathinfo.New("/repo", "/repo")
	svc := &service.Service{Dir: pathinfo.New("/repo/svc", "/repo/svc")}

	var buf bytes.Buffer
	WriteServicesPlain(&buf, []*service.Service{svc}, &origin, false)

	if strings.TrimSpace(buf.String()) != "./svc" {
		t.Fatalf("expected relative path ./svc, got %q", buf.String())
	}
}
