package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/outbox"
	"rentcam/internal/app/queries"
)

type renameCommand struct {
	Owner string
	Fail  bool
}

func (renameCommand) Key() string       { return "test.rename" }
func (c renameCommand) ActorID() string { return c.Owner }

type countQuery struct{}

func (countQuery) Key() string { return "test.count" }

type countingOutbox struct {
	flushes int
	err     error
}

func (b *countingOutbox) Add(context.Context, outbox.EventRecord) error { return nil }

func (b *countingOutbox) Flush(context.Context) error {
	b.flushes++
	return b.err
}

type recordingObserver struct {
	keys []string
	errs []error
}

func (o *recordingObserver) Observe(_ string, key string, _ time.Duration, err error) {
	o.keys = append(o.keys, key)
	o.errs = append(o.errs, err)
}

var errRename = errors.New("rename refused")

func newCommandBus() *commands.InMemoryBus {
	bus := commands.NewInMemoryBus()
	commands.Register[renameCommand, string](bus, commands.HandlerFunc[renameCommand, string](
		func(_ context.Context, cmd renameCommand) (string, error) {
			if cmd.Fail {
				return "", errRename
			}
			return "renamed by " + cmd.Owner, nil
		}))
	return bus
}

func tag(trace *[]string, name string) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			*trace = append(*trace, name+">")
			res, err := next.Dispatch(ctx, cmd)
			*trace = append(*trace, "<"+name)
			return res, err
		})
	}
}

func TestChainCommandsOrder(t *testing.T) {
	var trace []string
	bus := ChainCommands(newCommandBus(), tag(&trace, "outer"), nil, tag(&trace, "inner"))
	got, err := commands.Dispatch[renameCommand, string](context.Background(), bus, renameCommand{Owner: "u1"})
	if err != nil || got != "renamed by u1" {
		t.Fatalf("dispatch: %q %v", got, err)
	}
	want := []string{"outer>", "inner>", "<inner", "<outer"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestCompactOutbox(t *testing.T) {
	ctx := context.Background()

	box := &countingOutbox{}
	bus := ChainCommands(newCommandBus(), CompactOutbox(box, nil))
	if _, err := commands.Dispatch[renameCommand, string](ctx, bus, renameCommand{Owner: "u1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := commands.Dispatch[renameCommand, string](ctx, bus, renameCommand{Owner: "u1", Fail: true}); !errors.Is(err, errRename) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if box.flushes != 1 {
		t.Fatalf("flushes = %d, want 1 (failed commands must not compact)", box.flushes)
	}

	broken := &countingOutbox{err: errors.New("disk full")}
	bus = ChainCommands(newCommandBus(), CompactOutbox(broken, nil))
	got, err := commands.Dispatch[renameCommand, string](ctx, bus, renameCommand{Owner: "u2"})
	if err != nil || got != "renamed by u2" {
		t.Fatalf("compaction failure leaked into the result: %q %v", got, err)
	}

	if CompactOutbox(nil, nil) != nil {
		t.Fatalf("nil outbox should disable the stage")
	}
}

func TestRequireActor(t *testing.T) {
	observer := &recordingObserver{}
	bus := ChainCommands(newCommandBus(), CommandLogging(nil, observer), RequireActor())
	_, err := commands.Dispatch[renameCommand, string](context.Background(), bus, renameCommand{Owner: "  "})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(observer.keys) != 1 || observer.keys[0] != "test.rename" || !errors.Is(observer.errs[0], ErrUnauthenticated) {
		t.Fatalf("observer saw %v %v", observer.keys, observer.errs)
	}
}

func TestChainQueriesWithoutActor(t *testing.T) {
	bus := queries.NewInMemoryBus()
	queries.Register[countQuery, int](bus, queries.HandlerFunc[countQuery, int](
		func(context.Context, countQuery) (int, error) { return 3, nil }))
	chained := ChainQueries(bus, QueryLogging(nil, nil), RequireQueryActor())
	n, err := queries.Ask[countQuery, int](context.Background(), chained, countQuery{})
	if err != nil || n != 3 {
		t.Fatalf("ask: %d %v", n, err)
	}
}
