package service

import (
	"fmt"
	"strings"
)

// GenerationInstructions is the system role given to the generation model.
const GenerationInstructions = "Tu es un professeur de français expert, spécialisé dans la création de dictées " +
	"pédagogiques culturelles pour des élèves burkinabè. Tu réponds uniquement avec un objet JSON valide."

const generationPromptTemplate = `Génère une dictée adaptée au profil d'élève ci-dessous, sous forme d'un objet JSON, sans retour à la ligne, balise ni symbole de formatage. Le texte doit être lisible et naturel.

## Profil de l'élève
- Âge : %s ans
- Niveau scolaire : %s
- Objectif d'apprentissage : %s
- Difficultés spécifiques : %s
- Temps disponible : %s minutes

## Paramètres de la dictée
- Sujet imposé : %s
- Longueur souhaitée : %s
- Niveau de difficulté : %s
- Type de contenu : %s
- Vitesse de lecture : %s
- Inclure orthographe complexe : %s
- Inclure conjugaisons difficiles : %s
- Inclure accords grammaticaux : %s

## Contraintes de création
1. Respecte strictement le sujet imposé : "%s".
2. La longueur réelle du texte doit correspondre à : court (3 à 4 phrases), moyenne (6 à 8 phrases), long (10 à 12 phrases ou plus).
3. Chaque phrase de plus de 10 mots est répétée 3 fois, les plus courtes 2 fois, naturellement.
4. Utilise un vocabulaire soutenu, culturellement situé (Burkina Faso), sans simplification abusive.
5. Intègre au moins 3 mots rares ou typiques du terroir burkinabè, sans glossaire.
6. Si demandé, inclus des conjugaisons complexes (imparfait, passé simple, conditionnel) et des accords grammaticaux exigeants.
7. Ne retourne aucun astérisque, tiret, retour à la ligne, ni balise HTML ou Markdown.

## Format de réponse JSON obligatoire
{
  "title": "un titre original et évocateur du thème",
  "text": "texte intégral de la dictée avec les répétitions intégrées",
  "difficulty": "%s",
  "longueur_reelle": "%s",
  "vocabulaire_rare": ["mot1", "mot2", "mot3"],
  "score_difficulte": <score entre 1 et 10 selon la richesse lexicale, syntaxique et les pièges orthographiques>,
  "types_conjugaisons": ["passé simple", "imparfait"],
  "accords_complexes": ["participe passé avec avoir"]
}`

// GenerationParams describes the learner and the dictation to generate.
// Empty fields take the defaults applied by WithDefaults.
type GenerationParams struct {
	Age                string `json:"age"`
	SchoolLevel        string `json:"niveauScolaire"`
	Objective          string `json:"objectifApprentissage"`
	Difficulties       string `json:"difficultesSpecifiques"`
	TimeMinutes        string `json:"tempsDisponible"`
	Level              string `json:"niveau"`
	Topic              string `json:"sujet"`
	Length             string `json:"longueurTexte"`
	ContentType        string `json:"typeContenu"`
	ReadingSpeed       string `json:"vitesseLecture"`
	IncludeGrammar     bool   `json:"includeGrammaire"`
	IncludeConjugation bool   `json:"includeConjugaison"`
	IncludeSpelling    bool   `json:"includeOrthographe"`
}

// WithDefaults fills empty fields
func (p GenerationParams) WithDefaults() GenerationParams {
	p.Age = orDefault(p.Age, "12")
	p.SchoolLevel = orDefault(p.SchoolLevel, "Étudiant")
	p.Objective = orDefault(p.Objective, "orthographe")
	p.Difficulties = orDefault(p.Difficulties, "aucune")
	p.TimeMinutes = orDefault(p.TimeMinutes, "10")
	p.Level = orDefault(p.Level, "facile")
	p.Topic = orDefault(p.Topic, "la vie au village")
	p.Length = orDefault(p.Length, "moyenne")
	p.ContentType = orDefault(p.ContentType, "narratif")
	p.ReadingSpeed = orDefault(p.ReadingSpeed, "normale")
	return p
}

// BuildGenerationPrompt renders the generation request
func BuildGenerationPrompt(p GenerationParams) string {
	p = p.WithDefaults()
	return fmt.Sprintf(generationPromptTemplate,
		p.Age, p.SchoolLevel, p.Objective, p.Difficulties, p.TimeMinutes,
		p.Topic, p.Length, p.Level, p.ContentType, p.ReadingSpeed,
		yesNo(p.IncludeSpelling), yesNo(p.IncludeConjugation), yesNo(p.IncludeGrammar),
		p.Topic, p.Level, p.Length)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

func yesNo(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}
