package cleaner_test

import (
	"regexp"
	"testing"

	"github.com/aretw0/cartridge/pkg/cleaner"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var moduleKeyword = regexp.MustCompile(`\b(import|export)\b`)

func TestClean_EndToEndExample(t *testing.T) {
	raw := `import { x } from 'utils'; export const colour = 'red'; export function playTrack(){ return 42; }`
	assert.Equal(t, `const colour = 'red'; function playTrack(){ return 42; }`, cleaner.Clean(raw))
}

func TestClean_Imports(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Default import",
			in:   "import Tone from 'tone';\nconst a = 1;",
			want: "const a = 1;",
		},
		{
			name: "Default import without semicolon",
			in:   "import Tone from \"tone\"\nconst a = 1;",
			want: "const a = 1;",
		},
		{
			name: "Brace import",
			in:   "import { randomRange, randomRepeat } from '../utils';\nconst a = 1;",
			want: "const a = 1;",
		},
		{
			name: "Multi-line brace import",
			in:   "import {\n  randomRange,\n  randomRepeat,\n} from '../utils';\n\nconst a = 1;",
			want: "const a = 1;",
		},
		{
			name: "Type-only brace import",
			in:   "import type { Track } from './types';\nconst a = 1;",
			want: "const a = 1;",
		},
		{
			name: "Wildcard import",
			in:   "import * as Tone from 'tone';\nconst a = 1;",
			want: "const a = 1;",
		},
		{
			name: "Mixed block",
			in: "import Thing from \"thing\";\n" +
				"import {\n  randomRange,\n} from '../utils';\n" +
				"import * as Tone from 'tone';\n\n" +
				"export const colour = '#ff00aa';\n",
			want: "const colour = '#ff00aa';\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleaner.Clean(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotRegexp(t, moduleKeyword, got)
		})
	}
}

func TestClean_Exports(t *testing.T) {
	in := "export const a = 1;\nexport let b = 2;\nexport async function playTrack() {}\nexport function helper() {}\n"
	want := "const a = 1;\nlet b = 2;\nasync function playTrack() {}\nfunction helper() {}\n"
	assert.Equal(t, want, cleaner.Clean(in))
}

func TestClean_TypeAnnotations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Promise return type",
			in:   "async function playTrack(): Promise<Tone.Analyser> {",
			want: "async function playTrack() {",
		},
		{
			name: "Nested promise return type",
			in:   "async function load(): Promise<Map<string, Array<number>>> {",
			want: "async function load() {",
		},
		{
			name: "Capitalized variable type",
			in:   "const synth: Tone.PolySynth = new Tone.PolySynth();",
			want: "const synth = new Tone.PolySynth();",
		},
		{
			name: "Primitive variable type",
			in:   "let count: number = 0;",
			want: "let count = 0;",
		},
		{
			name: "Declaration without initializer",
			in:   "let pending: Tone.Loop;",
			want: "let pending;",
		},
		{
			name: "Array type",
			in:   "let voices: Voice[] = [];",
			want: "let voices = [];",
		},
		{
			name: "Union with null",
			in:   "let maybe: string | null = null;",
			want: "let maybe = null;",
		},
		{
			name: "Function parameters and return type",
			in:   "function schedule(time: number, note: string): void {",
			want: "function schedule(time, note) {",
		},
		{
			name: "Generic parameter type",
			in:   "function pick(table: Map<string, number>, key: string) {",
			want: "function pick(table, key) {",
		},
		{
			name: "Parameter default value",
			in:   "function withDefault(bpm: number = 120) {",
			want: "function withDefault(bpm = 120) {",
		},
		{
			name: "Arrow parameters",
			in:   "const play = (when: number, gain?: number) => when * 2;",
			want: "const play = (when, gain) => when * 2;",
		},
		{
			name: "Inline annotation",
			in:   "for (const n: Note of notes) {",
			want: "for (const n of notes) {",
		},
		{
			name: "Values are not types",
			in:   "const o = { osc: Tone.Oscillator, fn: Make() };",
			want: "const o = { osc: Tone.Oscillator, fn: Make() };",
		},
		{
			name: "Conditional with capitalized branch",
			in:   "const t = cond ? a : Foo;",
			want: "const t = cond ? a : Foo;",
		},
		{
			name: "Conditional with capitalized operands",
			in:   "const Node = fm ? FMSynth : Synth;",
			want: "const Node = fm ? FMSynth : Synth;",
		},
		{
			name: "Multi-line conditional",
			in:   "const Node = fm\n  ? fast\n  : Synth;",
			want: "const Node = fm\n  ? fast\n  : Synth;",
		},
		{
			name: "Optional chaining is not a conditional",
			in:   "const v = opts?.voice; let next: Voice = v;",
			want: "const v = opts?.voice; let next = v;",
		},
		{
			name: "Annotation after a conditional statement",
			in:   "const k = c ? 1 : 2;\nlet synth: Synth = make(k);",
			want: "const k = c ? 1 : 2;\nlet synth = make(k);",
		},
		{
			name: "Object literals with lowercase values",
			in:   "const s = new Tone.Synth({ oscillator: { type: 'sine' }, volume: -6 });",
			want: "const s = new Tone.Synth({ oscillator: { type: 'sine' }, volume: -6 });",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleaner.Clean(tt.in))
		})
	}
}

func TestClean_UnrecognizedSyntaxPassesThrough(t *testing.T) {
	inputs := []string{
		"",
		"export default class Foo {}",
		"export { a, b };",
		"const weird = a ?? b; @decorator",
		"import(",
		"function (",
		"/* import { never closed",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { cleaner.Clean(in) })
	}
	assert.Equal(t, "export default class Foo {}", cleaner.Clean("export default class Foo {}"))
}

func TestClean_Idempotent(t *testing.T) {
	sources := []string{
		sampleTrack,
		`import { x } from 'utils'; export const colour = 'red'; export function playTrack(){ return 42; }`,
		"const o = { osc: Tone.Oscillator, fn: Make() };",
		"function pick(table: Map<string, number>, key: string): Promise<void> {}",
		"let maybe: string | null = null;",
	}
	for _, src := range sources {
		once := cleaner.Clean(src)
		assert.Equal(t, once, cleaner.Clean(once))
	}
}

func TestClean_SampleTrack(t *testing.T) {
	got := cleaner.Clean(sampleTrack)
	assert.NotRegexp(t, moduleKeyword, got)
	if diff := cmp.Diff(sampleTrackCleaned, got); diff != "" {
		t.Errorf("Clean(sampleTrack) mismatch (-want +got):\n%s", diff)
	}
}

const sampleTrack = `import * as Tone from 'tone';
import { randomRange, randomRepeat } from '../utils';

export const colour = '#6c5ce7';

let reverb: Tone.Reverb;

export async function playTrack(): Promise<Tone.Analyser> {
  const analyser: Tone.Analyser = new Tone.Analyser('waveform', 256);
  reverb = new Tone.Reverb({ decay: 8, wet: 0.6 });
  const synth = new Tone.PolySynth(Tone.Synth).connect(reverb);
  randomRepeat((time: number) => {
    synth.triggerAttackRelease(pickNote(randomRange(0, 4)), '2n', time);
  }, 2, 6);
  return analyser;
}

function pickNote(index: number): string {
  const notes: string[] = ['C4', 'E4', 'G4', 'B4'];
  return notes[Math.floor(index)];
}
`

const sampleTrackCleaned = `const colour = '#6c5ce7';

let reverb;

async function playTrack() {
  const analyser = new Tone.Analyser('waveform', 256);
  reverb = new Tone.Reverb({ decay: 8, wet: 0.6 });
  const synth = new Tone.PolySynth(Tone.Synth).connect(reverb);
  randomRepeat((time) => {
    synth.triggerAttackRelease(pickNote(randomRange(0, 4)), '2n', time);
  }, 2, 6);
  return analyser;
}

function pickNote(index) {
  const notes = ['C4', 'E4', 'G4', 'B4'];
  return notes[Math.floor(index)];
}
`

func TestCleanForSandbox(t *testing.T) {
	in := "import { randomRange } from '../utils';\n" +
		"import * as Tone from 'tone';\n" +
		"import helper from './helper';\n" +
		"import { pick } from 'trackUtils';\n" +
		"function playTrack() {}"
	want := "import * as Tone from 'tone';\nfunction playTrack() {}"
	assert.Equal(t, want, cleaner.CleanForSandbox(in))

	cleaned := cleaner.Clean(sampleTrack)
	assert.Equal(t, cleaned, cleaner.CleanForSandbox(cleaned))
}
