package media

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"rentdesk/internal/dbmongo"
)

// HTTPServer streams message attachments straight out of GridFS.
type HTTPServer struct {
	storage *dbmongo.AttachmentStorage
}

func NewHTTPServer(mongoClient *dbmongo.MongoClient) *HTTPServer {
	return &HTTPServer{
		storage: dbmongo.NewAttachmentStorage(mongoClient),
	}
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router := mux.NewRouter()
	router.HandleFunc("/media/{fileId}", s.serveFile).Methods("GET")
	router.HandleFunc("/media", s.uploadFile).Methods("POST")
	router.HandleFunc("/media/{fileId}", s.deleteFile).Methods("DELETE")
	router.HandleFunc("/health", s.health).Methods("GET")
	router.ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	fileReader, stored, err := s.storage.DownloadFile(r.Context(), fileID)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	contentType := stored.MimeType
	if contentType == "" {
		contentType = contentTypeFromName(stored.Filename)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", stored.Size))

	if _, err := io.Copy(w, fileReader); err != nil {
		log.Printf("error streaming file %s: %v", fileID, err)
	}
}

// uploadFile accepts multipart form uploads under the "file" field.
func (s *HTTPServer) uploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = contentTypeFromName(header.Filename)
	}
	uploaderID := r.FormValue("uploader_id")

	stored, err := s.storage.UploadFile(r.Context(), header.Filename, mimeType, uploaderID, file)
	if err != nil {
		log.Printf("upload failed: %v", err)
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, `{"id":%q,"filename":%q,"size":%d,"file_type":%q}`,
		stored.ID, stored.Filename, stored.Size, stored.FileType)
}

func (s *HTTPServer) deleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.DeleteFile(r.Context(), mux.Vars(r)["fileId"]); err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func contentTypeFromName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("media server is healthy"))
}
