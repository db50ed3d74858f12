package host_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/aretw0/cartridge/pkg/host"
	"github.com/aretw0/cartridge/pkg/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func play(t *testing.T, src string, deps ...sandbox.Dependency) (any, error) {
	t.Helper()
	exec, err := sandbox.New(sandbox.WithDependencies(deps...))
	require.NoError(t, err)
	entry, err := exec.Execute(context.Background(), "host.ts", src)
	require.NoError(t, err)
	t.Cleanup(entry.Stop)
	return entry.Play(context.Background())
}

func TestDependencies_Names(t *testing.T) {
	deps := host.Dependencies(nil)
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = d.Name
	}
	assert.Equal(t, []string{host.AudioName, host.RandomRangeName, host.RandomRepeatName}, names)
}

func TestRandomRange(t *testing.T) {
	src := `function playTrack() {
		const out = [];
		for (let i = 0; i < 50; i++) out.push(randomRange(2, 4));
		return out;
	}`

	t.Run("Values stay in range", func(t *testing.T) {
		got, err := play(t, src, host.Dependencies(nil)...)
		require.NoError(t, err)
		values, ok := got.([]any)
		require.True(t, ok)
		require.Len(t, values, 50)
		for _, v := range values {
			var f float64
			switch n := v.(type) {
			case float64:
				f = n
			case int64:
				f = float64(n)
			default:
				t.Fatalf("expected number, got %T", v)
			}
			assert.GreaterOrEqual(t, f, 2.0)
			assert.Less(t, f, 4.0)
		}
	})

	t.Run("Seed makes scopes reproducible", func(t *testing.T) {
		first, err := play(t, src, host.Dependencies(nil, host.WithSeed(7))...)
		require.NoError(t, err)
		second, err := play(t, src, host.Dependencies(nil, host.WithSeed(7))...)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestRandomRepeat(t *testing.T) {
	ticks := make(chan float64, 16)
	notify := sandbox.Dependency{Name: "notify", Value: func(elapsed float64) {
		select {
		case ticks <- elapsed:
		default:
		}
	}}
	deps := append(host.Dependencies(nil, host.WithMinInterval(time.Millisecond)), notify)

	exec, err := sandbox.New(sandbox.WithDependencies(deps...))
	require.NoError(t, err)
	entry, err := exec.Execute(context.Background(), "repeat.ts", `
		function playTrack() {
			return randomRepeat(function (t) { notify(t); }, 0.001, 0.005);
		}`)
	require.NoError(t, err)

	_, err = entry.Play(context.Background())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		select {
		case elapsed := <-ticks:
			assert.Greater(t, elapsed, 0.0)
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never fired", i)
		}
	}

	entry.Stop()
}

func TestRandomRepeat_CancelStopsTicks(t *testing.T) {
	ticks := make(chan struct{}, 16)
	notify := sandbox.Dependency{Name: "notify", Value: func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}}
	deps := append(host.Dependencies(nil, host.WithMinInterval(time.Millisecond)), notify)

	_, err := play(t, `
		function playTrack() {
			const cancel = randomRepeat(function () { notify(); }, 0.001, 0.002);
			cancel();
		}`, deps...)
	require.NoError(t, err)

	select {
	case <-ticks:
		t.Fatal("canceled repetition still fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRandomRepeat_RejectsNonFunction(t *testing.T) {
	_, err := play(t, `function playTrack() { randomRepeat(42, 1, 2); }`, host.Dependencies(nil)...)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExecution)
	assert.Contains(t, err.Error(), "callback is not a function")
}

func TestAudio_SharedValue(t *testing.T) {
	audio := map[string]any{"version": "silent"}
	got, err := play(t, `function playTrack() { return Tone.version; }`, host.Dependencies(audio)...)
	require.NoError(t, err)
	assert.Equal(t, "silent", got)
}
