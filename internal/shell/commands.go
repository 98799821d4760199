package shell

import "fmt"

// Screen rows used by the built-in commands.
const (
	helpHeaderRow = 8
	helpFirstRow  = 10
	helpColumn    = 20
	messageRow    = 12
)

// Builtins returns the built-in command set in help order.
func Builtins() []Command {
	return []Command{
		{Name: "help", Summary: "Show this help message", Handler: cmdHelp},
		{Name: "clear", Summary: "Clear the screen", Handler: cmdClear},
		{Name: "echo", Summary: "Echo text back", Handler: cmdEcho},
		{Name: "uptime", Summary: "Show system uptime", Handler: cmdUptime},
		{Name: "version", Summary: "Show OS version", Handler: cmdVersion},
		{Name: "reboot", Summary: "Restart the system", Handler: cmdReboot},
	}
}

func cmdHelp(sh *Shell, _ string) Outcome {
	sh.repaint()
	sh.surface.PrintCentered(sh.opts.OSName+" Commands:", helpHeaderRow)
	for i, c := range sh.table.Commands() {
		sh.surface.MoveCursor(helpFirstRow+i, helpColumn)
		sh.surface.Print(fmt.Sprintf("%-7s - %s", c.Name, c.Summary))
	}
	sh.toInputRow()
	return Continue
}

// cmdClear homes the cursor instead of returning to the input row.
func cmdClear(sh *Shell, _ string) Outcome {
	sh.repaint()
	sh.surface.MoveCursor(0, 0)
	return Continue
}

func cmdEcho(sh *Shell, args string) Outcome {
	if args == "" {
		return Continue
	}
	sh.repaint()
	sh.surface.PrintCentered(args, messageRow)
	sh.toInputRow()
	return Continue
}

// cmdUptime prints a fixed message; no clock is read.
func cmdUptime(sh *Shell, _ string) Outcome {
	sh.repaint()
	sh.surface.PrintCentered("System has been running since boot", messageRow)
	sh.toInputRow()
	return Continue
}

func cmdVersion(sh *Shell, _ string) Outcome {
	sh.repaint()
	sh.surface.PrintCentered(sh.opts.OSName+" "+sh.opts.Version, messageRow)
	sh.surface.PrintCentered(sh.opts.Tagline, messageRow+1)
	sh.toInputRow()
	return Continue
}

func cmdReboot(sh *Shell, _ string) Outcome {
	sh.repaint()
	sh.surface.PrintCentered("Rebooting system...", messageRow)
	sh.toInputRow()
	sh.delay.Delay(sh.opts.RebootDelay)
	return Halt
}
