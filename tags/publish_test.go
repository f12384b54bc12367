package tags

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/linyows/tagver/git"
	"github.com/linyows/tagver/semver"
)

func TestDecide(t *testing.T) {
	v, err := semver.Parse("2.0.0")
	if err != nil {
		t.Fatal(err)
	}

	if a := Decide(v, false); a.Kind != Execute || a.Tag != "2.0.0" {
		t.Errorf("Decide(2.0.0, false) = %+v, want Execute 2.0.0", a)
	}
	if a := Decide(v, true); a.Kind != Report || a.Tag != "2.0.0" {
		t.Errorf("Decide(2.0.0, true) = %+v, want Report 2.0.0", a)
	}
}

func TestApplyExecute(t *testing.T) {
	cl := &fakeClient{}
	var out bytes.Buffer
	p := NewPublisher(cl, &out, testLogger())

	a := Action{Kind: Execute, Tag: "1.2.0-1"}
	if err := p.Apply(context.Background(), testProject(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cl.created) != 1 || cl.created[0] != "1.2.0-1" {
		t.Errorf("created = %v, want [1.2.0-1]", cl.created)
	}
	if len(cl.pushed) != 1 || cl.pushed[0] != "1.2.0-1" {
		t.Errorf("pushed = %v, want [1.2.0-1]", cl.pushed)
	}
}

func TestApplyReportMutatesNothing(t *testing.T) {
	cl := &fakeClient{}
	var out bytes.Buffer
	p := NewPublisher(cl, &out, testLogger())

	a := Action{Kind: Report, Tag: "2.0.0"}
	if err := p.Apply(context.Background(), testProject(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cl.created) != 0 || len(cl.pushed) != 0 {
		t.Errorf("repository mutated during report: created=%v pushed=%v", cl.created, cl.pushed)
	}
	want := "git tag 2.0.0 && git push origin 2.0.0\n"
	if out.String() != want {
		t.Errorf("report output = %q, want %q", out.String(), want)
	}
}

// failingCreateClient simulates a tag-creation race.
type failingCreateClient struct {
	fakeClient
}

func (f *failingCreateClient) CreateTag(ctx context.Context, path, tag string) error {
	return fmt.Errorf("%w: %s", git.ErrTagExists, tag)
}

func TestApplyTagExistsIsFatal(t *testing.T) {
	cl := &failingCreateClient{}
	var out bytes.Buffer
	p := NewPublisher(cl, &out, testLogger())

	err := p.Apply(context.Background(), testProject(), Action{Kind: Execute, Tag: "1.0.0"})
	if !errors.Is(err, git.ErrTagExists) {
		t.Fatalf("error = %v, want ErrTagExists", err)
	}
	if !strings.Contains(err.Error(), "1.0.0") {
		t.Errorf("error should name the conflicting tag: %v", err)
	}
	if len(cl.pushed) != 0 {
		t.Errorf("nothing must be pushed after a create failure, pushed=%v", cl.pushed)
	}
}
