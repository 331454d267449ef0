package module

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5"
)

type testModule struct {
	BaseModule
	initErr    error
	initCalled bool
	shutdowns  *[]string
	routes     int
}

func (m *testModule) Init(ctx *Context) error {
	m.initCalled = true
	if m.initErr != nil {
		return m.initErr
	}
	return m.BaseModule.Init(ctx)
}

func (m *testModule) Shutdown() error {
	if m.shutdowns != nil {
		*m.shutdowns = append(*m.shutdowns, m.Name())
	}
	return nil
}

func (m *testModule) RegisterAdminRoutes(r chi.Router) {
	m.routes++
}

func newTestModule(name string) *testModule {
	return &testModule{BaseModule: NewBaseModule(name, "1.0.0", "test module")}
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry(slog.Default())
	if err := r.Register(newTestModule("summary")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(newTestModule("summary")); err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestRegistryInitAllOrder(t *testing.T) {
	r := NewRegistry(slog.Default())
	a := newTestModule("a")
	b := newTestModule("b")
	if err := r.Register(a); err != nil {
		t.Fatalf("Register a: %v", err)
	}
	if err := r.Register(b); err != nil {
		t.Fatalf("Register b: %v", err)
	}

	ctx := &Context{}
	if err := r.InitAll(ctx); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if !a.initCalled || !b.initCalled {
		t.Error("all modules should initialize")
	}
	if a.Context() != ctx {
		t.Error("context should be stored by BaseModule")
	}

	modules := r.List()
	if len(modules) != 2 || modules[0].Name() != "a" || modules[1].Name() != "b" {
		t.Errorf("List() order wrong: %v", modules)
	}
}

func TestRegistryInitAllPropagatesError(t *testing.T) {
	r := NewRegistry(slog.Default())
	bad := newTestModule("bad")
	bad.initErr = errors.New("boom")
	if err := r.Register(bad); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.InitAll(&Context{}); err == nil {
		t.Error("InitAll should propagate module init errors")
	}
}

func TestRegistryShutdownReverseOrder(t *testing.T) {
	r := NewRegistry(slog.Default())
	var order []string
	a := newTestModule("a")
	a.shutdowns = &order
	b := newTestModule("b")
	b.shutdowns = &order
	_ = r.Register(a)
	_ = r.Register(b)

	r.ShutdownAll()
	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Errorf("shutdown order = %v, want [b a]", order)
	}
}

func TestRegistryRegisterAdminRoutes(t *testing.T) {
	r := NewRegistry(slog.Default())
	m := newTestModule("summary")
	_ = r.Register(m)

	router := chi.NewRouter()
	r.RegisterAdminRoutes(router)
	if m.routes != 1 {
		t.Errorf("RegisterAdminRoutes called %d times, want 1", m.routes)
	}
}
