package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

const defaultAPIURL = "https://api.telegram.org"

// HTTPClient реализует Client через HTTP API Telegram.
type HTTPClient struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// Option настраивает HTTPClient.
type Option func(*HTTPClient)

// WithAPIURL задает адрес Bot API (например, локальный сервер или httptest).
func WithAPIURL(apiURL string) Option {
	return func(c *HTTPClient) {
		c.apiURL = strings.TrimRight(apiURL, "/")
	}
}

// WithHTTPClient задает http.Client для запросов.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = httpClient
	}
}

// NewHTTPClient создаёт нового HTTP клиента Telegram по переданному токену
func NewHTTPClient(token string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		token:      token,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SendMessage отправляет сообщение text в чат chatID.
// Возвращает указатель на структуру Message в случае успеха.
func (c *HTTPClient) SendMessage(
	chatID int64,
	text string,
	opts *SendOptions,
) (*Message, error) {
	params := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	applySendOptions(params, opts)

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, "sendMessage", params)
	if err != nil {
		return nil, err
	}

	var message Message
	if err = json.Unmarshal(rawResp, &message); err != nil {
		return nil, err
	}

	return &message, nil
}

// EditMessage изменяет сообщение messageID на text в чате chatID.
// Возвращает nil в случае успеха.
func (c *HTTPClient) EditMessage(
	chatID int64,
	messageID int,
	text string,
	opts *SendOptions,
) error {
	params := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"message_id": messageID,
	}
	applySendOptions(params, opts)

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "editMessageText", params)

	return err
}

// AnswerCallback отвечает уведомлением в верхней части экрана чата (см. документацию
// telegram api) на callback query с идентификатором callbackID.
// Возращает nil в случае успеха.
func (c *HTTPClient) AnswerCallback(callbackID string, text string) error {
	params := map[string]interface{}{
		"callback_query_id": callbackID,
		"text":              text,
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "answerCallbackQuery", params)

	return err
}

// GetUpdates получает обновления.
// Если новых обновлений нет, ждёт до timeout секунд.
// Для продолжения обработки нужно передать offset = lastUpdateID + 1.
func (c *HTTPClient) GetUpdates(ctx context.Context, offset int, timeout int) ([]Update, error) {
	params := map[string]interface{}{
		"offset":          offset,
		"timeout":         timeout,
		"allowed_updates": []string{"message", "callback_query"},
	}

	rawResp, err := c.doRequest(ctx, "getUpdates", params)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err = json.Unmarshal(rawResp, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

// GetFile получает информацию о файле с идентификатором fileID.
// Возращает путь файла в случае успеха.
func (c *HTTPClient) GetFile(fileID string) (string, error) {
	params := map[string]interface{}{
		"file_id": fileID,
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, "getFile", params)
	if err != nil {
		return "", err
	}

	var file struct {
		FileID   string `json:"file_id"`
		FileSize int    `json:"file_size"`
		FilePath string `json:"file_path"`
	}

	if err = json.Unmarshal(rawResp, &file); err != nil {
		return "", err
	}

	return file.FilePath, nil
}

// DownloadFile скачивает файл с путем filePath.
// Возращает содержимое файла в случае успеха.
func (c *HTTPClient) DownloadFile(filePath string) ([]byte, error) {
	link := fmt.Sprintf("%s/file/bot%s/%s", c.apiURL, c.token, filePath)

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutDownload)
	defer cancelFunc()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", filePath, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"unexpected response status code %d for file %s",
			resp.StatusCode,
			filePath,
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body in DownloadFile: %w", err)
	}

	return data, nil
}

// SendDocument отправляет файл с названием fileName и содержимым data в чат chatID как документ.
// Возвращает nil в случае успеха.
func (c *HTTPClient) SendDocument(
	chatID int64,
	fileName string,
	data []byte,
) error {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10))
	if err != nil {
		return fmt.Errorf("failed to add chat_id field to multipart form: %w", err)
	}

	part, err := writer.CreateFormFile("document", fileName)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err = part.Write(data); err != nil {
		return fmt.Errorf("failed to write data to multipart form: %w", err)
	}

	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart form: %w", err)
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutDownload)
	defer cancelFunc()

	_, err = c.do(ctx, "sendDocument", writer.FormDataContentType(), &buf)

	return err
}

// SetWebhook включает доставку обновлений на url.
func (c *HTTPClient) SetWebhook(url, secret string) error {
	params := map[string]interface{}{
		"url":             url,
		"allowed_updates": []string{"message", "callback_query"},
	}

	if secret != "" {
		params["secret_token"] = secret
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "setWebhook", params)

	return err
}

// DeleteWebhook отключает webhook.
func (c *HTTPClient) DeleteWebhook() error {
	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "deleteWebhook", map[string]interface{}{})

	return err
}

// doRequest выполняет JSON-запрос к Telegram API.
// Возвращает результат запроса в случае успеха.
func (c *HTTPClient) doRequest(
	ctx context.Context,
	method string,
	params map[string]interface{},
) (json.RawMessage, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	return c.do(ctx, method, "application/json", bytes.NewReader(body))
}

// do отправляет тело body методу method и разбирает ответ Bot API.
func (c *HTTPClient) do(
	ctx context.Context,
	method string,
	contentType string,
	body io.Reader,
) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body of %s: %w", method, err)
	}

	var result struct {
		OK     bool            `json:"ok"`
		Result json.RawMessage `json:"result"`
		Error  string          `json:"description"`
	}

	if err = json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	if !result.OK {
		return nil, fmt.Errorf("client api error in %s: %s", method, result.Error)
	}

	return result.Result, nil
}

func applySendOptions(params map[string]interface{}, opts *SendOptions) {
	if opts == nil {
		return
	}

	if opts.ParseMode != "" {
		params["parse_mode"] = opts.ParseMode
	}

	if opts.ReplyMarkup != nil {
		params["reply_markup"] = opts.ReplyMarkup
	}
}
