package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"finsight/internal/dto"
	"finsight/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mime/multipart"
)

type LLMService struct {
	client         *gigago.Client
	model          *gigago.GenerativeModel
	config         *config.GigaChatConfig
	embeddingModel string
	logger         *zap.Logger
	httpClient     *http.Client
	baseURL        string
	accessToken    string // cached token for the REST endpoints (files, embeddings)
}

// advisorSystemInstruction grounds the model: exact numbers come from the
// deterministic KPI layer and must never be recomputed or invented.
func advisorSystemInstruction() string {
	return `You are a personal finance advisor embedded in a budgeting dashboard.

You receive, with every question, a structured context assembled by the application:
- HARD NUMBERS: current cash and runway, computed deterministically from the user's ledger. Treat them as ground truth. Never recompute, round differently, or contradict them.
- RECENT ACTIVITY: the user's latest transactions.
- RELEVANT HISTORY: semantically similar past financial events retrieved from memory.

Rules:
- Answer the user's question directly and practically, in plain language.
- Quote monetary figures only from the provided context. If a number is not in the context, say you don't have it rather than estimating.
- Keep replies short: a few sentences, or a short list when listing concrete actions.
- Do not give legal or tax advice; suggest consulting a professional for those topics.`
}

func NewLLMService(cfg *config.GigaChatConfig, embeddingModel string, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = advisorSystemInstruction()
	model.Temperature = 0.3

	httpClient := &http.Client{}
	if cfg.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	accessToken, err := getAccessToken(ctx, cfg, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	return &LLMService{
		client:         client,
		model:          model,
		config:         cfg,
		embeddingModel: embeddingModel,
		logger:         logger,
		httpClient:     httpClient,
		accessToken:    accessToken,
		baseURL:        "https://gigachat.devices.sberbank.ru/api/v1",
	}, nil
}

// getAccessToken obtains an OAuth token for the REST endpoints (file upload,
// embeddings). The API key is expected to be Base64-encoded already.
func getAccessToken(ctx context.Context, cfg *config.GigaChatConfig, httpClient *http.Client, logger *zap.Logger) (string, error) {
	oauthURL := "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"

	formData := url.Values{}
	formData.Set("scope", cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, "POST", oauthURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create OAuth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", uuid.New().String())
	req.Header.Set("Authorization", "Basic "+cfg.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Error("OAuth request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
		)
		return "", fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var oauthResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return "", fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in OAuth response")
	}

	return oauthResp.AccessToken, nil
}

// Generate runs one completion with the advisor system instruction.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embed returns the embedding vector for a text.
// Endpoint: POST /embeddings
func (s *LLMService) Embed(ctx context.Context, text string) ([]float32, error) {
	requestBody := map[string]interface{}{
		"model": s.embeddingModel,
		"input": []string{text},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call embeddings API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings API failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var embResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings response: %w", err)
	}
	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}

	return embResp.Data[0].Embedding, nil
}

// ParseStatement extracts structured transactions from statement text.
// The model is constrained to a {"transactions": [...]} JSON object.
func (s *LLMService) ParseStatement(ctx context.Context, statementText string) ([]dto.ParsedTransaction, error) {
	statementText = strings.TrimSpace(statementText)
	if len(statementText) < 10 {
		s.logger.Warn("Statement text is too short, skipping parse", zap.Int("length", len(statementText)))
		return []dto.ParsedTransaction{}, nil
	}

	prompt := fmt.Sprintf(`Extract every transaction from the bank statement below.

Return ONLY a valid JSON object, no markdown, no commentary, in exactly this shape:
{"transactions": [{"description": "short description", "amount": 12.34, "currency": "ISO 4217 code", "category": "food|transport|utilities|shopping|entertainment|healthcare|salary|services|other", "date": "YYYY-MM-DD", "type": "income|expense"}]}

Rules:
- Amounts are positive magnitudes; direction goes in "type".
- Use the statement's currency when a row does not state one.
- If the text contains no transactions, return {"transactions": []}.

Statement:
%s`, statementText)

	raw, err := s.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := extractTransactionsJSON(raw)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Statement parsed", zap.Int("transactions", len(parsed)))
	return parsed, nil
}

// extractTransactionsJSON pulls the {"transactions": [...]} object out of a
// model reply that may be wrapped in markdown fences or prose.
func extractTransactionsJSON(content string) ([]dto.ParsedTransaction, error) {
	content = strings.TrimSpace(content)

	jsonStart := strings.Index(content, "{")
	jsonEnd := strings.LastIndex(content, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return nil, fmt.Errorf("invalid response format: %s", content)
	}

	jsonStr := content[jsonStart : jsonEnd+1]

	var payload struct {
		Transactions []dto.ParsedTransaction `json:"transactions"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		jsonStr = strings.TrimSpace(jsonStr)
		jsonStr = strings.TrimPrefix(jsonStr, "```json")
		jsonStr = strings.TrimPrefix(jsonStr, "```")
		jsonStr = strings.TrimSuffix(jsonStr, "```")
		jsonStr = strings.TrimSpace(jsonStr)

		if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, content)
		}
	}

	if payload.Transactions == nil {
		payload.Transactions = []dto.ParsedTransaction{}
	}
	return payload.Transactions, nil
}

// UploadFile pushes a file to the files API and returns its ID for use as a
// vision attachment.
// Endpoint: POST /files
func (s *LLMService) UploadFile(ctx context.Context, fileReader io.Reader, fileName string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// "general" purpose allows the file to be attached to generation requests
	if err := writer.WriteField("purpose", "general"); err != nil {
		return "", fmt.Errorf("failed to write purpose field: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		switch ext {
		case ".jpg", ".jpeg":
			mimeType = "image/jpeg"
		case ".png":
			mimeType = "image/png"
		default:
			mimeType = "application/octet-stream"
		}
	}

	part, err := writer.CreatePart(map[string][]string{
		"Content-Type":        {mimeType},
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, fileReader); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("file too large (413): %s", string(bodyBytes))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var uploadResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	s.logger.Info("File uploaded for vision extraction", zap.String("file_id", uploadResp.ID))
	return uploadResp.ID, nil
}

// ExtractTextFromImage uploads an image and extracts its text through a
// vision chat completion.
func (s *LLMService) ExtractTextFromImage(ctx context.Context, fileReader io.Reader, fileName string) (string, error) {
	fileID, err := s.UploadFile(ctx, fileReader, fileName)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	prompt := `Extract all text from this financial document (receipt, bank statement, or app screenshot).
Return only the text visible in the image, with no commentary.
Represent tables as plain text rows. If nothing is readable, return an empty string.`

	return s.extractTextViaVisionAPI(ctx, fileID, prompt)
}

// extractTextViaVisionAPI runs a chat completion with a file attachment.
// Endpoint: POST /chat/completions, attachments format [["file_id"]].
func (s *LLMService) extractTextViaVisionAPI(ctx context.Context, fileID, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model": "GigaChat",
		"messages": []map[string]interface{}{
			{
				"role":        "user",
				"content":     prompt,
				"attachments": [][]string{{fileID}},
			},
		},
		"temperature": 0.3,
		"stream":      false,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("vision API failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var visionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&visionResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(visionResp.Choices) == 0 {
		return "", fmt.Errorf("no response from vision API")
	}

	text := strings.TrimSpace(visionResp.Choices[0].Message.Content)

	// The model sometimes replies with a refusal instead of extracted text
	textLower := strings.ToLower(text)
	refusals := []string{"cannot help", "cannot process", "please provide", "unable to extract"}
	for _, phrase := range refusals {
		if strings.Contains(textLower, phrase) {
			s.logger.Warn("Vision API returned a refusal instead of text", zap.String("message", text))
			return "", fmt.Errorf("model returned error message: %s", text)
		}
	}

	return text, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
