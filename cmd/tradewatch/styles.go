package main

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("62")  // Purple
	colorMuted   = lipgloss.Color("241") // Gray
	colorSuccess = lipgloss.Color("78")  // Green
	colorError   = lipgloss.Color("196") // Red
)

// titleStyle heads each command's output.
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

// successStyle marks completed operations.
var successStyle = lipgloss.NewStyle().
	Foreground(colorSuccess)

// errorStyle marks failures.
var errorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorError)

// mutedStyle renders progress and secondary detail.
var mutedStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

// priceStyle highlights estimated and listed prices.
var priceStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorSuccess)
