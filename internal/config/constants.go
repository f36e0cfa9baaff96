package config

// DefaultDatabasePath is the default path for the settings and import history database
const DefaultDatabasePath = "./readinglist.db"
