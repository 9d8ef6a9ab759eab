package config

import "time"

const (
	DefaultServerURL      = "http://localhost:8000"
	DefaultRequestTimeout = 60 * time.Second
	DefaultHistoryWindow  = 10
	DefaultMaxInputHeight = 6
	DefaultSidebarWidth   = 36
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/docchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Server: ServerConfig{
			URL:                   DefaultServerURL,
			RequestTimeoutSeconds: int(DefaultRequestTimeout / time.Second),
		},
		Chat: ChatConfig{
			HistoryWindow:  DefaultHistoryWindow,
			MaxInputHeight: DefaultMaxInputHeight,
			SidebarWidth:   DefaultSidebarWidth,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# docchat System Configuration
# Location: ~/.config/docchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where user config, keybindings and the document cache are stored
data_directory = "~/.local/share/docchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# docchat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[server]
# Document intelligence backend (the /api/v1 prefix is added by the client)
url = "http://localhost:8000"

# Upper bound for every backend request, in seconds (0 disables the timeout)
request_timeout_seconds = 60

[chat]
# Number of previous question/answer turns sent along with each question
history_window = 10

# Input box grows with its content up to this many rows, then scrolls
max_input_height = 6

# Width of the summary/suggestions side panel
sidebar_width = 36
`
}
