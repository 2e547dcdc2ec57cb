package constants

// DateFormat is the day key format used for entries and protected days (YYYY-MM-DD)
const DateFormat = "2006-01-02"
