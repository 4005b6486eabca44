package cmd

import (
	"flag"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the commands registered in c,
// derived from their flags.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		root.Sub[cmd.Name()] = completion(cmd)
	})
	return root
}

func completion(cmd subcommands.Command) *complete.Command {
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	comp := &complete.Command{Flags: flagPredictors(f)}

	switch cmd := cmd.(type) {
	case *group:
		comp.Sub = map[string]*complete.Command{}
		for _, sub := range cmd.commands {
			comp.Sub[sub.Name()] = completion(sub)
		}
	case *currencyCmd, *convertCmd:
		comp.Args = currencies()
	case *importCSVCmd:
		comp.Args = predict.Files("*.csv")
	}
	return comp
}

func currencies() predict.Set {
	var codes predict.Set
	for _, c := range budget.Currencies() {
		codes = append(codes, c.String())
	}
	return codes
}

// recentMonths predicts the current month and the eleven before.
func recentMonths() predict.Set {
	var months predict.Set
	m := date.ThisMonth()
	for i := 0; i < 12; i++ {
		months = append(months, m.Add(-i).String())
	}
	return months
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	predictors := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		predictors[fl.Name] = flagPredictor(fl)
	})
	return predictors
}

func flagPredictor(fl *flag.Flag) complete.Predictor {
	if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch fl.Value.(type) {
	case *kindFlag:
		return predict.Set{string(budget.Income), string(budget.Expense)}
	case *frequencyFlag:
		return predict.Set{date.Daily.String(), date.Weekly.String(), date.Monthly.String()}
	}
	switch fl.Name {
	case "config":
		return predict.Files("*.yaml")
	case "token-file":
		return predict.Files("*")
	case "m":
		return recentMonths()
	case "type":
		return predict.Set{"checking", "savings", "credit"}
	case "active":
		return predict.Set{"true", "false"}
	case "charset":
		return predict.Set{"auto", "utf-8", "windows-1252", "windows-1251", "iso-8859-1", "iso-8859-15"}
	}
	return predict.Something
}
