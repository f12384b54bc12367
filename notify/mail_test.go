package notify

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/mail.v2"

	"github.com/linyows/tagver/logging"
)

// mockDialer records messages instead of speaking SMTP.
type mockDialer struct {
	dialAndSendFunc func(m ...*mail.Message) error
	messages        []*mail.Message
}

func (md *mockDialer) DialAndSend(m ...*mail.Message) error {
	md.messages = append(md.messages, m...)
	if md.dialAndSendFunc != nil {
		return md.dialAndSendFunc(m...)
	}
	return nil
}

func testLogger() *logging.Logger {
	return logging.New("ERROR", "text", io.Discard)
}

func TestNewMail(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		env     map[string]string
		want    *Mail
		wantErr string
	}{
		{
			name:   "all parameters in URL",
			target: "smtp.example.com:587/dev@example.com?username=bot@example.com&password=secret&from=bot@example.com&subject=Tag+published&tls=true",
			want: &Mail{
				Host:     "smtp.example.com",
				Port:     587,
				Username: "bot@example.com",
				Password: "secret",
				From:     "bot@example.com",
				To:       "dev@example.com",
				Subject:  "Tag published",
				TLS:      true,
			},
		},
		{
			name:   "defaults and env credentials",
			target: "smtp.example.com/dev@example.com",
			env: map[string]string{
				"MAIL_USERNAME": "bot@example.com",
				"MAIL_PASSWORD": "secret",
			},
			want: &Mail{
				Host:     "smtp.example.com",
				Port:     587,
				Username: "bot@example.com",
				Password: "secret",
				From:     "bot@example.com",
				To:       "dev@example.com",
				Subject:  "Tagver Notification",
				TLS:      true,
			},
		},
		{
			name:    "missing recipient",
			target:  "smtp.example.com:587?username=bot&password=secret&from=bot@example.com",
			wantErr: "mail to address is required",
		},
		{
			name:    "missing password",
			target:  "smtp.example.com:587/dev@example.com?username=bot&from=bot@example.com",
			wantErr: "mail password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"MAIL_USERNAME", "MAIL_PASSWORD", "MAIL_FROM"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := NewMail(tt.target, testLogger())
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreUnexported(Mail{})); diff != "" {
				t.Errorf("mail mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMailSend(t *testing.T) {
	m, err := NewMail("smtp.example.com:587/dev@example.com?username=bot&password=secret&from=bot@example.com", testLogger())
	if err != nil {
		t.Fatal(err)
	}

	md := &mockDialer{}
	m.SetDialer(md)
	m.Send(context.Background(), "app tagged 1.2.0")

	if len(md.messages) != 1 {
		t.Fatalf("sent %d messages, want 1", len(md.messages))
	}
	msg := md.messages[0]
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "dev@example.com" {
		t.Errorf("To = %v", got)
	}
	if got := msg.GetHeader("From"); len(got) != 1 || got[0] != "bot@example.com" {
		t.Errorf("From = %v", got)
	}
}

func TestMailSendFailureIsSwallowed(t *testing.T) {
	m, err := NewMail("smtp.example.com:587/dev@example.com?username=bot&password=secret&from=bot@example.com", testLogger())
	if err != nil {
		t.Fatal(err)
	}

	md := &mockDialer{dialAndSendFunc: func(msgs ...*mail.Message) error {
		return errors.New("connection refused")
	}}
	m.SetDialer(md)

	// must not panic or propagate
	m.Send(context.Background(), "app tagged 1.2.0")
}
