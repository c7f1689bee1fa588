package internal

// Version is the application version shown in the CLI and window title
const Version = "0.3.0"
