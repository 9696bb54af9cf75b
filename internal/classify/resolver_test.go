package classify

import (
	"fmt"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		depth int
	}{
		{
			name:  "plain command is untouched",
			raw:   "git status",
			want:  "git status",
			depth: 0,
		},
		{
			name:  "bash -c unwraps one layer",
			raw:   `bash -c 'rm -rf /etc'`,
			want:  "rm -rf /etc",
			depth: 1,
		},
		{
			name:  "sh -c unwraps",
			raw:   `sh -c 'git push --force origin main'`,
			want:  "git push --force origin main",
			depth: 1,
		},
		{
			name:  "two shell layers",
			raw:   `bash -c "sh -c 'rm -rf /etc'"`,
			want:  "rm -rf /etc",
			depth: 2,
		},
		{
			name:  "python inline without subprocess stays wrapped",
			raw:   `python -c 'print("hello")'`,
			want:  `python -c 'print("hello")'`,
			depth: 0,
		},
		{
			name:  "python os.system unwraps to the shell command",
			raw:   `python3 -c "import os; os.system('rm -rf /etc')"`,
			want:  "rm -rf /etc",
			depth: 1,
		},
		{
			name:  "node execSync unwraps",
			raw:   `node -e "require('child_process').execSync('git push --force')"`,
			want:  "git push --force",
			depth: 1,
		},
		{
			name:  "shell without -c is not a wrapper",
			raw:   "bash script.sh",
			want:  "bash script.sh",
			depth: 0,
		},
		{
			name:  "dangling -c is not a wrapper",
			raw:   "bash -c",
			want:  "bash -c",
			depth: 0,
		},
		{
			name:  "empty command",
			raw:   "",
			want:  "",
			depth: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.raw)
			if got.Command != tt.want {
				t.Errorf("Resolve(%q).Command = %q, want %q", tt.raw, got.Command, tt.want)
			}
			if got.Depth != tt.depth {
				t.Errorf("Resolve(%q).Depth = %d, want %d", tt.raw, got.Depth, tt.depth)
			}
		})
	}
}

// nest wraps cmd in n layers of bash -c quoting.
func nest(cmd string, n int) string {
	for i := 0; i < n; i++ {
		cmd = fmt.Sprintf("bash -c %q", cmd)
	}
	return cmd
}

func TestResolveDepthBound(t *testing.T) {
	// Exactly at the bound: fully unwrapped.
	atBound := nest("rm -rf /etc", MaxResolveDepth)
	got := Resolve(atBound)
	if got.Command != "rm -rf /etc" {
		t.Errorf("Resolve at bound = %q, want inner command", got.Command)
	}
	if got.Depth != MaxResolveDepth {
		t.Errorf("Depth = %d, want %d", got.Depth, MaxResolveDepth)
	}

	// One past the bound: the original string comes back untouched.
	pastBound := nest("rm -rf /etc", MaxResolveDepth+1)
	got = Resolve(pastBound)
	if got.Command != pastBound {
		t.Errorf("Resolve past bound = %q, want input unchanged", got.Command)
	}
	if got.Depth != 0 {
		t.Errorf("Depth past bound = %d, want 0", got.Depth)
	}
}

func TestResolveIdempotent(t *testing.T) {
	inputs := []string{
		"git status",
		`bash -c 'rm -rf /etc'`,
		`bash -c "sh -c 'ls'"`,
		nest("echo deep", MaxResolveDepth),
		nest("echo deeper", MaxResolveDepth+1),
		nest("echo deepest", MaxResolveDepth+3),
		`python -c 'print(1)'`,
		"",
	}
	for _, in := range inputs {
		once := Resolve(in).Command
		twice := Resolve(once).Command
		if once != twice {
			t.Errorf("Resolve not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestContainsSubprocessCall(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"import os; os.system('ls')", true},
		{"subprocess.run(['ls'])", true},
		{"require('child_process').spawn('ls')", true},
		{"system('ls')", true},
		{"print('hello')", false},
		{"1 + 1", false},
	}
	for _, tt := range tests {
		if got := containsSubprocessCall(tt.code); got != tt.want {
			t.Errorf("containsSubprocessCall(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
