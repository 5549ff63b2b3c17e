package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/config"
	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/enricher"
	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/excel"
	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/receitaws"
)

// Fixed workbook layout: identifiers come from column CNPJ of sheet CNPJ,
// results land in sheet Dados of the same workbook.
const (
	inputSheet  = "CNPJ"
	inputColumn = "CNPJ"
	outputSheet = "Dados"
)

// === Job System ===

type JobStatus string

const (
	StatusRunning JobStatus = "running"
	StatusDone    JobStatus = "done"
	StatusError   JobStatus = "error"
)

type JobResult struct {
	Consulted int    `json:"consulted"` // CNPJs read from the input sheet
	Rows      int    `json:"rows"`      // rows appended to the output sheet
	Sheet     string `json:"sheet"`
	Output    string `json:"output"`   // full path
	Filename  string `json:"filename"` // just the filename for download
}

type Job struct {
	ID        string
	Status    JobStatus
	Logs      []string
	Progress  int // 0-100
	Result    *JobResult
	Error     string
	Mutex     sync.RWMutex
	CreatedAt time.Time
}

var (
	JobStore = make(map[string]*Job)
	JobLock  sync.RWMutex
)

func NewJob() *Job {
	return &Job{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		Logs:      []string{},
		CreatedAt: time.Now(),
	}
}

func (j *Job) Log(msg string) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	ts := time.Now().Format("15:04:05")
	j.Logs = append(j.Logs, fmt.Sprintf("[%s] %s", ts, msg))
}

func (j *Job) SetProgress(current, total int, msg string) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	if total > 0 {
		j.Progress = int(float64(current) / float64(total) * 100)
	}
	if msg != "" {
		ts := time.Now().Format("15:04:05")
		j.Logs = append(j.Logs, fmt.Sprintf("[%s] %s", ts, msg))
	}
}

func GetJob(id string) *Job {
	JobLock.RLock()
	defer JobLock.RUnlock()
	return JobStore[id]
}

// === Main ===

func main() {
	cfg := config.Load()

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("cnpjsession", store))

	r.LoadHTMLGlob("templates/*")

	authRequired := func(c *gin.Context) {
		session := sessions.Default(c)
		user := session.Get("user")
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}

	r.GET("/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{})
	})

	r.POST("/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if username == cfg.LoginUser && password == cfg.LoginPass {
			session := sessions.Default(c)
			session.Set("user", username)
			session.Save()
			c.Redirect(http.StatusFound, "/")
		} else {
			c.HTML(http.StatusOK, "login.html", gin.H{
				"Error": "Usuário ou senha incorretos",
			})
		}
	})

	r.GET("/logout", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Clear()
		session.Save()
		c.Redirect(http.StatusFound, "/login")
	})

	authorized := r.Group("/")
	authorized.Use(authRequired)
	{
		authorized.GET("/", func(c *gin.Context) {
			c.HTML(http.StatusOK, "index.html", gin.H{})
		})

		authorized.POST("/run", func(c *gin.Context) {
			file, err := c.FormFile("input_file")
			if err != nil {
				c.HTML(http.StatusOK, "index.html", gin.H{"Message": "Selecione uma planilha."})
				return
			}

			os.MkdirAll("uploads", 0755)
			os.MkdirAll("output", 0755)

			inputPath := filepath.Join("uploads", fmt.Sprintf("%s_%s", uuid.New().String(), file.Filename))
			if err := c.SaveUploadedFile(file, inputPath); err != nil {
				c.HTML(http.StatusOK, "index.html", gin.H{"Message": "Falha ao enviar a planilha."})
				return
			}

			job := NewJob()
			JobLock.Lock()
			JobStore[job.ID] = job
			JobLock.Unlock()

			go processJob(job, cfg.ReceitaWSURL, inputPath)

			c.HTML(http.StatusOK, "index.html", gin.H{
				"JobID":   job.ID,
				"Message": "Consulta iniciada...",
			})
		})

		authorized.GET("/logs", func(c *gin.Context) {
			jobID := c.Query("job_id")
			job := GetJob(jobID)
			if job == nil {
				c.JSON(http.StatusOK, gin.H{"ok": false, "error": "Job not found"})
				return
			}

			job.Mutex.RLock()
			logs := make([]string, len(job.Logs))
			copy(logs, job.Logs)
			status := job.Status
			progress := job.Progress
			job.Mutex.RUnlock()

			c.JSON(http.StatusOK, gin.H{
				"ok":       true,
				"logs":     logs,
				"status":   status,
				"progress": progress,
			})
		})

		authorized.GET("/status", func(c *gin.Context) {
			jobID := c.Query("job_id")
			job := GetJob(jobID)
			if job == nil {
				c.JSON(http.StatusOK, gin.H{"ok": false})
				return
			}
			job.Mutex.RLock()
			defer job.Mutex.RUnlock()

			res := gin.H{
				"ok":     true,
				"status": job.Status,
				"error":  job.Error,
			}
			if job.Result != nil {
				res["result"] = job.Result
			}
			c.JSON(http.StatusOK, res)
		})

		authorized.POST("/cancel", func(c *gin.Context) {
			jobID := c.Query("job_id")
			job := GetJob(jobID)
			if job != nil {
				// The lookup loop is strictly sequential and is not
				// interrupted mid-batch; the request is only recorded.
				job.Log("Cancelamento solicitado pelo usuário...")
			}
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		authorized.GET("/download-template", func(c *gin.Context) {
			f, err := excel.Template(inputSheet, inputColumn)
			if err != nil {
				c.String(http.StatusInternalServerError, "Falha ao gerar o modelo")
				return
			}
			defer f.Close()

			c.Header("Content-Disposition", `attachment; filename="CNPJ.xlsx"`)
			c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			f.Write(c.Writer)
		})

		authorized.GET("/download-result/:filename", func(c *gin.Context) {
			filename := c.Param("filename")
			target := filepath.Join("output", filepath.Base(filename))
			c.FileAttachment(target, filepath.Base(filename))
		})
	}

	fmt.Printf("Servidor de consulta CNPJ rodando na porta %s\n", cfg.Port)
	r.Run(":" + cfg.Port)
}

// processJob runs one enrichment batch: read the CNPJ column, look each
// identifier up, and append the collected rows once into the Dados sheet of
// the workbook. When no identifier yields data the workbook is left alone.
func processJob(job *Job, receitawsURL, inputPath string) {
	defer func() {
		if r := recover(); r != nil {
			job.Mutex.Lock()
			job.Status = StatusError
			job.Error = fmt.Sprintf("Panic: %v", r)
			job.Mutex.Unlock()
		}
	}()

	job.Log(fmt.Sprintf("Processando planilha: %s", filepath.Base(inputPath)))

	f, err := excel.OpenFile(inputPath)
	if err != nil {
		failJob(job, fmt.Sprintf("Não foi possível abrir a planilha: %v", err))
		return
	}
	defer f.Close()

	cnpjs, err := excel.ReadCNPJs(f, inputSheet, inputColumn)
	if err != nil {
		failJob(job, fmt.Sprintf("Erro ao ler a aba '%s': %v", inputSheet, err))
		return
	}
	job.Log(fmt.Sprintf("%d CNPJs lidos da aba '%s'.", len(cnpjs), inputSheet))

	client := receitaws.New(receitawsURL)
	client.Logger = job.Log

	start := time.Now()
	rows, err := enricher.EnrichAll(client, cnpjs, job.SetProgress, job.Log)
	if err != nil {
		failJob(job, fmt.Sprintf("Erro na consulta: %v", err))
		return
	}
	job.Log(fmt.Sprintf("Consulta concluída. Duração: %s", time.Since(start).Round(time.Millisecond)))

	if len(rows) == 0 {
		job.Log("Nenhum CNPJ retornou dados; a planilha não foi alterada.")
		job.Mutex.Lock()
		job.Status = StatusDone
		job.Progress = 100
		job.Mutex.Unlock()
		return
	}

	if err := excel.AppendRows(f, outputSheet, rows); err != nil {
		failJob(job, fmt.Sprintf("Erro ao gravar a aba '%s': %v", outputSheet, err))
		return
	}

	outputPath := strings.Replace(inputPath, ".xlsx", "_dados.xlsx", 1)
	outputPath = strings.Replace(outputPath, "uploads", "output", 1)
	if err := f.SaveAs(outputPath); err != nil {
		failJob(job, fmt.Sprintf("Erro ao salvar a planilha: %v", err))
		return
	}

	job.Log(fmt.Sprintf("Dados das empresas foram salvos na planilha na aba '%s'.", outputSheet))

	job.Mutex.Lock()
	job.Status = StatusDone
	job.Result = &JobResult{
		Consulted: len(cnpjs),
		Rows:      len(rows),
		Sheet:     outputSheet,
		Output:    outputPath,
		Filename:  filepath.Base(outputPath),
	}
	job.Progress = 100
	job.Mutex.Unlock()
}

func failJob(job *Job, msg string) {
	job.Mutex.Lock()
	job.Status = StatusError
	job.Error = msg
	job.Logs = append(job.Logs, "[ERROR] "+msg)
	job.Mutex.Unlock()
}
