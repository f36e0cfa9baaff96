// Package database persists what outlives a process: application settings
// and the history of bulk fixture imports. The library itself stays in
// memory (see package library).
//
//	db, err := database.NewDatabase("./readinglist.db")
//	_ = db.SetSetting(entities.SettingKeyThemeDefault, "dark")
//	session, err := db.CreateImportSession(entities.ImportSourceURL, url, "merge")
package database
