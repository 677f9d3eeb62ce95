package app

import (
	"context"
	"testing"
	"time"

	"spectres-crm/internal/cache"
	"spectres-crm/internal/lifecycle"
	"spectres-crm/internal/services"
)

func TestDropStaleCaches(t *testing.T) {
	store := cache.NewMemoryStore()
	a := &App{
		Store:   store,
		Clients: services.NewClientService(nil, nil, store),
		Reports: services.NewReportService(nil, nil, store),
	}
	ctx := context.Background()
	for _, k := range []string{"clients:list:all", "reports:summary:30", "appstate:u1"} {
		if err := store.Set(ctx, k, []byte(`{}`), time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	a.dropStaleCaches(&lifecycle.RunResult{})

	for _, k := range []string{"clients:list:all", "reports:summary:30"} {
		if _, ok, _ := store.Get(ctx, k); ok {
			t.Errorf("%s should be invalidated after a run", k)
		}
	}
	if _, ok, _ := store.Get(ctx, "appstate:u1"); !ok {
		t.Error("unrelated namespace must survive")
	}
}
