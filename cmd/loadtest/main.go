package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	BaseURL     = "http://localhost:8080"
	Token       = "root-token"
	TotalCount  = 100000
	Concurrency = 200
	Amount      = "1"
)

func main() {
	client := &http.Client{Timeout: 10 * time.Second}

	// 1. 建立測試帳戶
	accountID, err := createAccount(client, "loadtest")
	if err != nil {
		log.Fatalf("create account failed: %v", err)
	}
	log.Printf("created account %d", accountID)

	// 2. 併發打存款請求
	var wg sync.WaitGroup
	wg.Add(TotalCount)

	sem := make(chan struct{}, Concurrency)
	startTime := time.Now()

	for i := 0; i < TotalCount; i++ {
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := deposit(client, accountID, Amount); err != nil {
				if idx%10000 == 0 {
					log.Printf("deposit %d failed: %v", idx, err)
				}
			}
		}(i)
	}

	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d requests in %v\n", TotalCount, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(TotalCount)/elapsed.Seconds())

	// 3. 驗證最終餘額 (序列化正確的話會是 TotalCount * Amount)
	balance, err := getBalance(client, accountID)
	if err != nil {
		log.Fatalf("get balance failed: %v", err)
	}
	fmt.Printf("Final balance: %s\n", balance)
}

func createAccount(client *http.Client, ownerName string) (int64, error) {
	body, err := doJSON(client, http.MethodPost, "/accounts", map[string]any{"owner_name": ownerName})
	if err != nil {
		return 0, err
	}
	var resp struct {
		AccountID int64 `json:"account_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, err
	}
	return resp.AccountID, nil
}

func deposit(client *http.Client, accountID int64, amount string) error {
	path := fmt.Sprintf("/accounts/%d/deposit", accountID)
	_, err := doJSON(client, http.MethodPost, path, map[string]any{"amount": amount})
	return err
}

func getBalance(client *http.Client, accountID int64) (string, error) {
	path := fmt.Sprintf("/accounts/%d/balance", accountID)
	body, err := doJSON(client, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	return resp.Balance, nil
}

func doJSON(client *http.Client, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, body)
	}
	return body, nil
}
