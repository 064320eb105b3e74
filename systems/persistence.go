package systems

import (
	"encoding/json"
	"log"

	"github.com/quasilyte/gdata"
)

// ObserverPrefs is what the observer remembers between runs.
type ObserverPrefs struct {
	ServerAddress string `json:"serverAddress"`
	ShowGizmos    bool   `json:"showGizmos"`
}

const prefsKey = "observer"

var gdataManager *gdata.Manager

// InitPersistence opens the per-user storage for observer preferences.
func InitPersistence(appName string) error {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("[persistence] could not initialize: %v", err)
		return err
	}
	gdataManager = m
	return nil
}

// LoadPrefs returns the saved preferences, or nil when none exist or
// storage is unavailable.
func LoadPrefs() (*ObserverPrefs, error) {
	if gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem(prefsKey)
	if err != nil {
		log.Printf("[persistence] could not load prefs: %v", err)
		return nil, nil
	}
	if data == nil {
		return nil, nil
	}

	var prefs ObserverPrefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		log.Printf("[persistence] could not parse prefs: %v", err)
		return nil, err
	}
	return &prefs, nil
}

// SavePrefs writes p to storage. It is a no-op when storage is
// unavailable.
func SavePrefs(p *ObserverPrefs) error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := gdataManager.SaveItem(prefsKey, data); err != nil {
		log.Printf("[persistence] could not save prefs: %v", err)
		return err
	}
	return nil
}
