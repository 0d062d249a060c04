package redis

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

func validOptions() Options {
	return Options{
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 50 * time.Millisecond,
		RetryInterval:  10 * time.Millisecond,
		MaxWait:        20 * time.Millisecond,
		PingTimeout:    10 * time.Millisecond,
		DialTimeout:    10 * time.Millisecond,
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Options) {}},
		{name: "missing addr", mutate: func(o *Options) { o.Addr = "" }, wantErr: true},
		{name: "zero connect timeout", mutate: func(o *Options) { o.ConnectTimeout = 0 }, wantErr: true},
		{name: "zero retry interval", mutate: func(o *Options) { o.RetryInterval = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(o *Options) { o.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(o *Options) { o.PingTimeout = 0 }, wantErr: true},
		{name: "negative warn threshold", mutate: func(o *Options) { o.WarnThreshold = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			if err := opts.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNextWait(t *testing.T) {
	if got := nextWait(2*time.Second, 10*time.Second); got != 4*time.Second {
		t.Errorf("nextWait() = %v, want 4s", got)
	}
	if got := nextWait(8*time.Second, 10*time.Second); got != 10*time.Second {
		t.Errorf("nextWait() = %v, want cap 10s", got)
	}
}

func TestConnectGivesUp(t *testing.T) {
	start := time.Now()
	client, err := Connect(context.Background(), validOptions(), logger.Nop())
	if err == nil {
		_ = client.Close()
		t.Fatal("Connect() to a closed port should fail")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Connect() took %v, should give up after ConnectTimeout", elapsed)
	}
}
