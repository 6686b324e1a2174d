package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/tagcache"
)

func TestZapLoggerForwardsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lg := ZapLogger{L: zap.New(core)}

	lg.Info("entities cleared", tagcache.Fields{"namespace": "entities"})
	lg.Error("boom", tagcache.Fields{"err": errors.New("backend down")})

	all := logs.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if all[0].Message != "entities cleared" || all[0].ContextMap()["namespace"] != "entities" {
		t.Fatalf("unexpected entry: %+v", all[0])
	}
	if all[1].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %v", all[1].Level)
	}
	if all[1].ContextMap()["err"] != "backend down" {
		t.Fatalf("expected error rendered as string, got %v", all[1].ContextMap()["err"])
	}
}
