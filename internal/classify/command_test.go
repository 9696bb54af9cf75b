package classify

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		seg  string
		cmd  string
		args []string
	}{
		{"simple", "git status", "git", []string{"status"}},
		{"quoted argument", `psql -c "DROP TABLE users"`, "psql", []string{"-c", "DROP TABLE users"}},
		{"single quotes", `echo 'hello world'`, "echo", []string{"hello world"}},
		{"empty", "", "", nil},
		{"whitespace only", "   ", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseCommand(tt.seg)
			if c.Name != tt.cmd {
				t.Errorf("Name = %q, want %q", c.Name, tt.cmd)
			}
			if !reflect.DeepEqual(c.Args, tt.args) {
				t.Errorf("Args = %v, want %v", c.Args, tt.args)
			}
		})
	}
}

func TestCommandHelpers(t *testing.T) {
	c := parseCommand("rm -rf --verbose ./build /tmp/x")

	if !c.HasShortFlag('r') || !c.HasShortFlag('f') {
		t.Error("expected -rf cluster to carry both r and f")
	}
	if c.HasShortFlag('x') {
		t.Error("did not expect x in any short flag")
	}
	if !c.HasFlag("--verbose") {
		t.Error("expected --verbose flag")
	}
	if got := c.Targets(); !reflect.DeepEqual(got, []string{"./build", "/tmp/x"}) {
		t.Errorf("Targets = %v", got)
	}

	git := parseCommand("git -C /repo push --force origin main")
	if got := git.Sub(); got != "push" {
		t.Errorf("Sub = %q, want push", got)
	}
}

func TestSplitChain(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{"single command", "git status", []string{"git status"}},
		{"and chain", "go build && go test", []string{"go build", "go test"}},
		{"or chain", "make || echo failed", []string{"make", "echo failed"}},
		{"semicolon", "ls; pwd", []string{"ls", "pwd"}},
		{"pipe", "ls | grep foo | wc -l", []string{"ls", "grep foo", "wc -l"}},
		{"quoted operators stay put", `echo "a && b"`, []string{`echo "a && b"`}},
		{"subshell", "(cd /tmp && ls)", []string{"cd /tmp", "ls"}},
		{"if clause", "if test -f x; then cat x; fi", []string{"test -f x", "cat x"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitChain(tt.cmd)
			if err != nil {
				t.Fatalf("SplitChain(%q) error: %v", tt.cmd, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitChain(%q) = %v, want %v", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestSplitChainUnparseable(t *testing.T) {
	if _, err := SplitChain(`echo "unclosed`); err != ErrUnparseable {
		t.Errorf("error = %v, want ErrUnparseable", err)
	}
}

func TestStripPrefixes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sudo rm -rf /etc", "rm"},
		{"timeout 30 mix test", "mix"},
		{"env CI=1 FOO=bar go test", "go"},
		{"nohup nice make", "make"},
		{"git status", "git"},
		{"sudo", "sudo"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := stripPrefixes(parseCommand(tt.in))
			if c.Name != tt.want {
				t.Errorf("stripPrefixes(%q).Name = %q, want %q", tt.in, c.Name, tt.want)
			}
		})
	}
}
