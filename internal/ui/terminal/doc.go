// Package terminal is the line-oriented UI collaborator: a REPL that reads
// commands and form fields from a terminal and prints whatever the core
// renders.
//
// Commands
//
//	help             show available commands
//	login            sign in (prompts for email and password)
//	signup           create an account
//	show signup      switch to the signup form
//	show login       switch to the login form
//	forgot           demo password reset lookup
//	check            evaluate a password against the requirements
//	close            dismiss the welcome popup
//	whoami           show the signed-in user
//	logout           sign out
//	reload           re-read state from the store, like a page reload
//	stats            print counters
//	exit | quit      leave the program
//
// Passwords are read without echo when stdin is a terminal.
package terminal
