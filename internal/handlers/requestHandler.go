package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocFlowAPI/internal/adapter"
	"github.com/akolanti/DocFlowAPI/internal/adapter/utils"
	"github.com/akolanti/DocFlowAPI/internal/api"
	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
	"github.com/akolanti/DocFlowAPI/internal/domain/jobModel"
	"github.com/akolanti/DocFlowAPI/internal/ocr"
	"github.com/akolanti/DocFlowAPI/internal/search"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id        string
	traceId   string
	jobType   jobModel.JobType
	fileName  string
	spoolPath string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// UploadHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a PDF or image via multipart/form-data, queues an OCR ingestion job, and returns a job ID to track status.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document       formData  file    true   "The document to upload"
// @Param        document_name  formData  string  false  "Overrides the stored file name"
// @Success      202  {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400  {object}  api.JobResponse      "Unsupported format or bad multipart data"
// @Failure      500  {object}  api.JobResponse      "Storage or write error"
// @Router       /documents [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getSpoolDirectory()
		if errString != "" {
			logRH.Error("Couldn't get spool directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		err := r.ParseMultipartForm(config.MaxUploadSizeBytes)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		docName := r.FormValue("document_name")
		if docName == "" {
			docName = fileMetadata.Filename
		}

		//reject unsupported formats before anything is written or queued
		if _, err := ocr.MimeTypeForFile(docName); err != nil {
			logRH.Warn("Rejected upload", "file", docName, "error", err)
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Unsupported document format")
			return
		}

		spoolName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(docName))
		spoolPath := filepath.Join(targetDir, spoolName)
		destinationFileWriter, err := os.Create(spoolPath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
			return
		}

		enqueueJob(r, w, jobModel.JobTypeIngest, docName, spoolPath)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// StructureHandler godoc
// @Summary      Extract structured fields from an ingested document
// @Description  Queues a structuring job that runs the field-extraction model over the document's OCR text.
// @Tags         Documents
// @Produce      json
// @Param        name  path      string  true  "File name of an ingested document"
// @Success      202   {object}  api.InitJobResponse  "Job successfully created"
// @Failure      404   {object}  api.JobResponse      "Document not in the index"
// @Router       /documents/{name}/structure [post]
func StructureHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		name := utils.GetChiURLParam(r, "name")

		_, found, err := FindRecord(name)
		if err != nil {
			logRH.Error("Index lookup failed", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, name, "Index error")
			return
		}
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, name, "Document not found")
			return
		}

		enqueueJob(r, w, jobModel.JobTypeStructure, name, "")
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// SearchHandler godoc
// @Summary      Keyword search over indexed documents
// @Description  Every whitespace-separated keyword must appear in a document's OCR text (case-insensitive). An empty query matches everything.
// @Tags         Search
// @Produce      json
// @Param        q     query     string  false  "Keywords"
// @Param        type  query     string  false  "Document type filter, 'all' disables it"
// @Success      200   {object}  api.SearchResponse
// @Failure      500   {object}  api.JobResponse  "Index could not be read"
// @Router       /search [get]
func SearchHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		records, err := LoadRecords()
		if err != nil {
			logRH.Error("Index load failed", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Index error")
			return
		}

		query := r.URL.Query().Get("q")
		typeFilter := r.URL.Query().Get("type")
		matches := search.Search(records, query, typeFilter)
		writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(matches))
	}
}

// TypesHandler godoc
// @Summary      List document types present in the index
// @Tags         Search
// @Produce      json
// @Success      200  {object}  api.TypesResponse
// @Failure      500  {object}  api.JobResponse  "Index could not be read"
// @Router       /types [get]
func TypesHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		records, err := LoadRecords()
		if err != nil {
			logRH.Error("Index load failed", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Index error")
			return
		}
		writeJsonResponse(w, http.StatusOK, api.TypesResponse{Types: search.DistinctTypes(records)})
	}
}

// GetDocumentHandler godoc
// @Summary      Get the full index record of a document
// @Tags         Documents
// @Produce      json
// @Param        name  path      string  true  "File name"
// @Success      200   {object}  docModel.DocumentRecord
// @Failure      404   {object}  api.JobResponse  "Document not in the index"
// @Router       /documents/{name} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		name := utils.GetChiURLParam(r, "name")
		record, found, err := FindRecord(name)
		if err != nil {
			logRH.Error("Index lookup failed", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, name, "Index error")
			return
		}
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, name, "Document not found")
			return
		}
		writeJsonResponse(w, http.StatusOK, record)
	}
}

// DownloadFileHandler serves the original upload.
// @Summary      Download the original document
// @Tags         Documents
// @Param        name  path  string  true  "File name"
// @Success      200
// @Failure      404  {object}  api.JobResponse
// @Router       /documents/{name}/file [get]
func DownloadFileHandler(w http.ResponseWriter, r *http.Request) {
	serveDocumentAsset(w, r, func(rec docModel.DocumentRecord) string { return rec.PathFile })
}

// DownloadOcrHandler serves the raw OCR artifact.
// @Summary      Download the OCR artifact
// @Tags         Documents
// @Param        name  path  string  true  "File name"
// @Success      200
// @Failure      404  {object}  api.JobResponse
// @Router       /documents/{name}/ocr [get]
func DownloadOcrHandler(w http.ResponseWriter, r *http.Request) {
	serveDocumentAsset(w, r, func(rec docModel.DocumentRecord) string { return rec.PathOcr })
}

// DownloadStructuredHandler serves the structured extraction artifact.
// @Summary      Download the structured extraction
// @Tags         Documents
// @Param        name  path  string  true  "File name"
// @Success      200
// @Failure      404  {object}  api.JobResponse
// @Router       /documents/{name}/structured [get]
func DownloadStructuredHandler(w http.ResponseWriter, r *http.Request) {
	serveDocumentAsset(w, r, func(rec docModel.DocumentRecord) string { return rec.PathStructured })
}

func serveDocumentAsset(w http.ResponseWriter, r *http.Request, pick func(docModel.DocumentRecord) string) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}
	name := utils.GetChiURLParam(r, "name")
	record, found, err := FindRecord(name)
	if err != nil {
		logRH.Error("Index lookup failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, name, "Index error")
		return
	}
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, name, "Document not found")
		return
	}
	path := pick(record)
	if path == "" {
		WriteErrorResponse(w, http.StatusNotFound, name, "Artifact not available")
		return
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		WriteErrorResponse(w, http.StatusNotFound, name, "Artifact missing on disk")
		return
	}
	http.ServeFile(w, r, path)
}

func enqueueJob(request *http.Request, w http.ResponseWriter, jobType jobModel.JobType, fileName string, spoolPath string) {
	newJob := newJobData{
		id:        utils.GetNewUUID(),
		traceId:   request.Context().Value(config.TRACE_ID_KEY).(string),
		jobType:   jobType,
		fileName:  fileName,
		spoolPath: spoolPath,
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}
