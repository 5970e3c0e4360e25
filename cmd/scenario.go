package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/glossopoeia/saturate/egraph"
	"gopkg.in/yaml.v3"
)

// A Scenario declares sorts and functions and then runs commands against a
// fresh database, in order.
type Scenario struct {
	Sorts     []SortDecl     `yaml:"sorts"`
	Functions []FunctionDecl `yaml:"functions"`
	Commands  []Command      `yaml:"commands"`
}

// A SortDecl without a presort declares an equality sort. With one, for
// example presort: UnstableFn, it declares a sort made from Inputs and Output.
type SortDecl struct {
	Name    string   `yaml:"name"`
	Presort string   `yaml:"presort,omitempty"`
	Inputs  []string `yaml:"inputs,omitempty"`
	Output  string   `yaml:"output,omitempty"`
}

type FunctionDecl struct {
	Name   string   `yaml:"name"`
	Inputs []string `yaml:"inputs"`
	Output string   `yaml:"output"`
}

// Exactly one action is set per command. Expect, when present, is compared
// with the command's printed result.
type Command struct {
	Let     *LetCommand `yaml:"let,omitempty"`
	Eval    string      `yaml:"eval,omitempty"`
	Union   []string    `yaml:"union,omitempty"`
	Set     *SetCommand `yaml:"set,omitempty"`
	Check   string      `yaml:"check,omitempty"`
	Extract string      `yaml:"extract,omitempty"`
	Rebuild bool        `yaml:"rebuild,omitempty"`
	Expect  string      `yaml:"expect,omitempty"`
}

type LetCommand struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

type SetCommand struct {
	Call  string `yaml:"call"`
	Value string `yaml:"value"`
}

type ExpectationError struct {
	Command  int
	Expected string
	Actual   string
}

func (e ExpectationError) Error() string {
	return fmt.Sprintf("scenario: command %d printed %s, expected %s", e.Command, e.Actual, e.Expected)
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	return ParseScenario(data, path)
}

// ParseScenario decodes a scenario. The path is only used in error messages.
func ParseScenario(data []byte, path string) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.validate(path); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate(path string) error {
	for i, d := range s.Sorts {
		if d.Name == "" {
			return fmt.Errorf("%s: sort %d has no name", path, i)
		}
		if d.Presort == "" && (len(d.Inputs) > 0 || d.Output != "") {
			return fmt.Errorf("%s: sort %s has inputs or an output but no presort", path, d.Name)
		}
	}
	for i, f := range s.Functions {
		if f.Name == "" || f.Output == "" {
			return fmt.Errorf("%s: function %d needs a name and an output", path, i)
		}
	}
	for i, c := range s.Commands {
		if c.actions() != 1 {
			return fmt.Errorf("%s: command %d must have exactly one action", path, i)
		}
		if c.Union != nil && len(c.Union) != 2 {
			return fmt.Errorf("%s: command %d must union exactly two expressions", path, i)
		}
	}
	return nil
}

func (c Command) actions() int {
	n := 0
	for _, set := range []bool{c.Let != nil, c.Eval != "", c.Union != nil, c.Set != nil, c.Check != "", c.Extract != "", c.Rebuild} {
		if set {
			n++
		}
	}
	return n
}

// Declare adds the scenario's sorts and functions to the database.
func (s *Scenario) Declare(eg *egraph.EGraph) error {
	for _, d := range s.Sorts {
		var err error
		if d.Presort == "" {
			err = eg.DeclareSort(d.Name)
		} else {
			err = eg.DeclarePresortSort(d.Name, d.Presort, d.Inputs, d.Output)
		}
		if err != nil {
			return err
		}
	}
	for _, f := range s.Functions {
		if err := eg.DeclareFunction(f.Name, f.Inputs, f.Output); err != nil {
			return err
		}
	}
	return nil
}

// Run declares everything and executes the commands, writing one line per
// command to out. The first failing command stops the run.
func (s *Scenario) Run(eg *egraph.EGraph, out io.Writer, color bool) error {
	if err := s.Declare(eg); err != nil {
		return err
	}
	for i, c := range s.Commands {
		res, err := c.run(eg)
		if err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
		fmt.Fprintf(out, "%s %s = %s\n", heading(c.name(), color), c.subject(), res)
		if c.Expect != "" && c.Expect != res {
			return ExpectationError{i, c.Expect, res}
		}
	}
	return nil
}

func (c Command) name() string {
	switch {
	case c.Let != nil:
		return "let"
	case c.Eval != "":
		return "eval"
	case c.Union != nil:
		return "union"
	case c.Set != nil:
		return "set"
	case c.Check != "":
		return "check"
	case c.Extract != "":
		return "extract"
	default:
		return "rebuild"
	}
}

func (c Command) subject() string {
	switch {
	case c.Let != nil:
		return c.Let.Name
	case c.Eval != "":
		return c.Eval
	case c.Union != nil:
		return c.Union[0]
	case c.Set != nil:
		return c.Set.Call
	case c.Check != "":
		return c.Check
	case c.Extract != "":
		return c.Extract
	default:
		return "rebuild"
	}
}

func (c Command) run(eg *egraph.EGraph) (string, error) {
	var res string
	switch {
	case c.Let != nil:
		if err := eg.Let(c.Let.Name, c.Let.Expr); err != nil {
			return "", err
		}
		res = c.Let.Expr
	case c.Eval != "":
		v, s, err := eg.Eval(c.Eval)
		if err != nil {
			return "", err
		}
		res = eg.Show(v, s)
	case c.Union != nil:
		if err := eg.Union(c.Union[0], c.Union[1]); err != nil {
			return "", err
		}
		res = c.Union[1]
	case c.Set != nil:
		if err := eg.Set(c.Set.Call, c.Set.Value); err != nil {
			return "", err
		}
		res = c.Set.Value
	case c.Check != "":
		if err := eg.Check(c.Check); err != nil {
			return "", err
		}
		res = "ok"
	case c.Extract != "":
		cost, term, err := eg.Extract(c.Extract)
		if err != nil {
			return "", err
		}
		res = fmt.Sprintf("%s (cost %d)", term, cost)
	default:
		res = fmt.Sprintf("%d", eg.Rebuild())
	}
	return res, nil
}

func heading(name string, color bool) string {
	if !color {
		return name + ":"
	}
	return "\x1b[1;36m" + name + ":\x1b[0m"
}
