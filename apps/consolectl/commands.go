package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// tokenFile holds the console session token between invocations.
const tokenFile = ".teacherdesk-token"

func (cli *commandLine) login(employeeID, password string) error {
	body, err := json.Marshal(map[string]string{
		"employee_id": employeeID,
		"password":    password,
	})
	if err != nil {
		return err
	}

	res, err := cli.http.Post(cli.baseURL+"/v1/session/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "is the console running?")
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return readError(res)
	}

	var payload struct {
		Token   string `json:"token"`
		Session struct {
			Account struct {
				Name string `json:"name"`
			} `json:"account"`
			Offline bool `json:"offline"`
		} `json:"session"`
	}
	if err = json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return err
	}
	if err = saveToken(payload.Token); err != nil {
		return err
	}

	mode := "online"
	if payload.Session.Offline {
		mode = "offline"
	}
	fmt.Printf("logged in as %s (%s)\n", payload.Session.Account.Name, mode)
	return nil
}

func (cli *commandLine) status() error {
	res, err := cli.get("/v1/status")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return readError(res)
	}
	return printStatus(res.Body)
}

func (cli *commandLine) syncNow() error {
	res, err := cli.post("/v1/status/sync")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return readError(res)
	}
	fmt.Println("sync drained")
	return printStatus(res.Body)
}

func printStatus(r io.Reader) error {
	var payload struct {
		Online   bool `json:"online"`
		Backends []struct {
			Name      string    `json:"name"`
			Online    bool      `json:"online"`
			CheckedAt time.Time `json:"checked_at"`
		} `json:"backends"`
		PendingItems int       `json:"pending_items"`
		LastSyncTime time.Time `json:"last_sync_time"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return err
	}

	if payload.Online {
		fmt.Println("online")
	} else {
		fmt.Println("OFFLINE")
	}
	for _, b := range payload.Backends {
		state := "unreachable"
		if b.Online {
			state = "ok"
		}
		fmt.Printf("  %-10s %s\n", b.Name, state)
	}
	fmt.Printf("pending items: %d\n", payload.PendingItems)
	if !payload.LastSyncTime.IsZero() {
		fmt.Printf("last sync: %s\n", payload.LastSyncTime.Local().Format(time.RFC822))
	}
	return nil
}

func (cli *commandLine) get(path string) (*http.Response, error) {
	return cli.send(http.MethodGet, path)
}

func (cli *commandLine) post(path string) (*http.Response, error) {
	return cli.send(http.MethodPost, path)
}

func (cli *commandLine) send(method, path string) (*http.Response, error) {
	req, err := http.NewRequest(method, cli.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	token, err := loadToken()
	if err != nil {
		return nil, errors.Wrap(err, "no session; run login first")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := cli.http.Do(req)
	return res, errors.Wrap(err, "is the console running?")
}

func readError(res *http.Response) error {
	body, _ := io.ReadAll(res.Body)
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return errors.New(payload.Error)
	}
	return errors.Errorf("%s: %s", res.Status, body)
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, tokenFile), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	token, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(token), nil
}
