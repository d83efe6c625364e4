package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatGPTResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int      `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

func promptAI(prompt string, chatGptToken string, cacheKey string) (ChatGPTResponse, error) {
	// Use provided cacheKey for the cache file name
	cacheFilename := filepath.Join(CacheDir, "chatgpt", cacheKey+".json")
	chatgptCacheDir := filepath.Join(CacheDir, "chatgpt")

	// Ensure the chatgpt cache directory exists
	if !Path(chatgptCacheDir).isDirectory() {
		if err := os.MkdirAll(chatgptCacheDir, 0755); err != nil {
			Log("Error creating ChatGPT cache directory:", err)
		}
	}

	// Check if the cached data exists
	if _, err := os.Stat(cacheFilename); err == nil {
		Log("🔄 Using cached ChatGPT response for prompt", cacheKey)

		data, err := os.ReadFile(cacheFilename)
		if err != nil {
			return ChatGPTResponse{}, err
		}

		var response ChatGPTResponse
		if err := json.Unmarshal(data, &response); err != nil {
			return ChatGPTResponse{}, err
		}

		return response, nil
	}

	requestData := map[string]interface{}{
		"messages":    []Message{{Role: "user", Content: prompt}},
		"model":       "gpt-3.5-turbo",
		"max_tokens":  80,
		"temperature": 0,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return ChatGPTResponse{}, err
	}

	apiKey := chatGptToken
	apiUrl := "https://api.openai.com/v1/chat/completions"
	req, err := http.NewRequest("POST", apiUrl, bytes.NewBuffer(jsonData))
	if err != nil {
		return ChatGPTResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return ChatGPTResponse{}, err
	}
	defer resp.Body.Close()

	// Read and parse the response
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChatGPTResponse{}, err
	}

	var response ChatGPTResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ChatGPTResponse{}, err
	}

	// Write the response to the cache file
	responseData, err := json.Marshal(response)
	if err != nil {
		Log("Error marshaling ChatGPT response for cache:", err)
	} else {
		if err := os.WriteFile(cacheFilename, responseData, 0644); err != nil {
			Log("Error writing ChatGPT cache file:", err)
		}
	}

	return response, nil
}

type GPTAnimeInfo struct {
	Title   string  `json:"title"`
	Season  string  `json:"season,omitempty"`
	Episode string  `json:"episode,omitempty"`
	Error   *string `json:"error"`
}

// promptAiForAnimeMeta is the last-resort parser for filenames none of
// the regular strategies recognize.
func promptAiForAnimeMeta(fileName string, chatGptToken string) (AnimeMeta, error) {
	prompt := `
	I need you to extract the anime series title, season number and episode number from a release file name.
	The title may be bilingual (e.g. Japanese romaji and Chinese separated by underscores) - prefer the romaji/latin form.
	Strip release group tags, resolution, codec and checksum fields from the title.
	If no season is present use "1". If no episode number can be determined, report an error.
	Answer in json format: {
		"title": "series title",
		"season": "1",
		"episode": "12",
	 	"error": "provide null or error if the episode can't be determined."
	}
	file: "` + fileName + `"
	`

	// Create a cache key based on request type and file name
	cacheKey := "animeMeta-" + ReplaceInvalidFilenameChars(fileName)

	response, err := promptAI(prompt, chatGptToken, cacheKey)
	if err != nil {
		return AnimeMeta{}, err
	}

	if len(response.Choices) == 0 {
		return AnimeMeta{}, fmt.Errorf("empty ChatGPT response for %q", fileName)
	}
	message := response.Choices[0].Message.Content

	var info GPTAnimeInfo
	if err := json.Unmarshal([]byte(message), &info); err != nil {
		return AnimeMeta{}, err
	}
	if info.Error != nil {
		return AnimeMeta{}, fmt.Errorf("%s", *info.Error)
	}

	// key the result the way the parser does, by the bare stem
	meta := AnimeMeta{Title: info.Title, Season: 1, RawFilename: Path(fileName).stem()}
	if season, err := strconv.Atoi(info.Season); err == nil && season > 0 {
		meta.Season = season
	}
	episode, err := strconv.Atoi(info.Episode)
	if err != nil {
		return AnimeMeta{}, fmt.Errorf("ChatGPT returned no usable episode for %q", fileName)
	}
	meta.Episode = episode
	return meta, nil
}
