package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Simplified DTOs for the script
type createSessionResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type submitMessageResponse struct {
	Data struct {
		Reply          string   `json:"reply"`
		Clarifications []string `json:"clarifications"`
		Concluded      bool     `json:"concluded"`
		ConcludeReason string   `json:"conclude_reason"`
		Progress       struct {
			QuestionIndex int `json:"question_index"`
			MessageCount  int `json:"message_count"`
		} `json:"progress"`
	} `json:"data"`
}

func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // LLM turns can be slow, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("Facilitated Dialogue Simulation Client\n")

	// 1. Create a session with a plan and a small knowledge base
	color.Yellow("\n[1] Create discussion session")
	sessionReq := map[string]interface{}{
		"topic": "Neighborhood transit redesign",
		"questions": []string{
			"How do you currently get around the neighborhood?",
			"What would make you use the bus more often?",
		},
		"followup_limit":    2,
		"no_new_info_limit": 2,
		"knowledge_base":    "The council proposes two new bus lines along Elm Street and a protected bike lane on 5th Avenue. Service frequency would increase to every 10 minutes during peak hours.",
	}
	resp, body, err := sendRequest("POST", "/session/v1", sessionReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var created createSessionResponse
	json.Unmarshal(body, &created)
	sessionID := created.Data.ID
	fmt.Printf("Session: %s\n", sessionID)

	// 2. Rebuild the retrieval index synchronously so the first turn has context
	color.Yellow("\n[2] Rebuild retrieval index")
	resp, _, err = sendRequest("POST", "/session/v1/"+sessionID+"/rebuild-index", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 3. Drive a participant through the dialogue until it concludes
	color.Yellow("\n[3] Participant 'alice' talks until conclusion")
	messages := []string{
		"I mostly walk, but I take the 42 bus when it rains.",
		"The bus is too infrequent in the evenings, I often wait 25 minutes.",
		"Honestly nothing new to add, same as I said.",
		"Still the same, frequency is my only concern.",
		"Yes, every 10 minutes would change everything for me.",
		"I think that covers it.",
	}
	for _, text := range messages {
		fmt.Printf("\nALICE: %s\n", text)
		start := time.Now()
		resp, body, err = sendRequest("POST", "/conversation/v1/"+sessionID+"/message", map[string]string{
			"participant_key": "alice",
			"display_name":    "Alice",
			"message":         text,
		})
		elapsed := time.Since(start)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		if resp.StatusCode != 200 {
			color.Red("API Error %d: %s", resp.StatusCode, string(body))
			break
		}

		var res submitMessageResponse
		json.Unmarshal(body, &res)
		color.Green("FACILITATOR (%v): %s", elapsed, res.Data.Reply)
		for _, q := range res.Data.Clarifications {
			fmt.Printf("  clarification: %s\n", q)
		}
		fmt.Printf("  question %d, message %d\n", res.Data.Progress.QuestionIndex, res.Data.Progress.MessageCount)
		if res.Data.Concluded {
			color.Cyan("Conversation concluded (%s)", res.Data.ConcludeReason)
			break
		}
	}

	// 4. A second participant answers once, then asks to stop
	color.Yellow("\n[4] Participant 'bob' answers once, then stops")
	resp, body, err = sendRequest("POST", "/conversation/v1/"+sessionID+"/message", map[string]string{
		"participant_key": "bob",
		"message":         "I drive everywhere, buses are not reliable enough for my shifts.",
	})
	if err != nil || resp.StatusCode != 200 {
		color.Red("Failed: %v %s", err, string(body))
	} else {
		color.Green("Status: %s", resp.Status)
	}
	resp, body, _ = sendRequest("POST", "/conversation/v1/"+sessionID+"/stop", map[string]string{
		"participant_key": "bob",
	})
	color.Green("Stop: %s %s", resp.Status, string(body))

	// 5. Fetch final documents and generate the cross-participant report
	color.Yellow("\n[5] Final documents")
	for _, key := range []string{"alice", "bob"} {
		resp, body, _ = sendRequest("GET", "/conversation/v1/"+sessionID+"/participants/"+key+"/final-document", nil)
		fmt.Printf("%s: %s %s\n", key, resp.Status, string(body))
	}

	color.Yellow("\n[6] Generate synthesis report")
	resp, body, err = sendRequest("POST", "/synthesis/v1/"+sessionID+"/report", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var report map[string]interface{}
	json.Unmarshal(body, &report)
	pretty, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(pretty))
}
